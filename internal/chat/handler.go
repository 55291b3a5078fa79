package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tradelink-chat/internal/services"
	"tradelink-chat/internal/transport/httpdto"
	tradelink_errors "tradelink-chat/pkg/errors"
	"tradelink-chat/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ParticipantGate is the authorization predicate consulted once per
// connection attempt, before the handshake completes.
type ParticipantGate interface {
	IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
}

// TokenAuthenticator resolves a bearer token to an identity.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (services.AuthUser, error)
}

// ConnectLimiter throttles connection attempts per identity.
type ConnectLimiter interface {
	AllowConnect(ctx context.Context, userID string) bool
}

// Handler upgrades authorized clients onto a room's broadcast group.
type Handler struct {
	gate         ParticipantGate
	auth         TokenAuthenticator
	messages     MessageAppender
	registry     *Registry
	limiter      ConnectLimiter
	storeTimeout time.Duration
	logger       *logger.Logger
}

func NewHandler(gate ParticipantGate, auth TokenAuthenticator, messages MessageAppender, registry *Registry, limiter ConnectLimiter, storeTimeout time.Duration, l *logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNop()
	}
	return &Handler{
		gate:         gate,
		auth:         auth,
		messages:     messages,
		registry:     registry,
		limiter:      limiter,
		storeTimeout: storeTimeout,
		logger:       l,
	}
}

// Handle runs the Connecting state: identity, then the participation
// gate, then the upgrade. Any rejection happens before the handshake
// completes so an unauthorized socket never reaches the Active loop.
func (h *Handler) Handle(c *gin.Context) {
	token := h.extractToken(c)
	user, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.JSON(httpdto.FromError(tradelink_errors.ErrUnauthorized))
		return
	}

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(httpdto.FromError(fmt.Errorf("invalid room id: %w", tradelink_errors.ErrInvalidInput)))
		return
	}

	if h.limiter != nil && !h.limiter.AllowConnect(c.Request.Context(), user.ID.String()) {
		c.JSON(httpdto.FromError(fmt.Errorf("too many connection attempts: %w", tradelink_errors.ErrRateLimited)))
		return
	}

	ok, err := h.gate.IsParticipant(c.Request.Context(), roomID, user.ID)
	if err != nil {
		c.JSON(httpdto.FromError(fmt.Errorf("authorization check failed: %w", err)))
		return
	}
	if !ok {
		c.JSON(httpdto.FromError(fmt.Errorf("not a participant of this room: %w", tradelink_errors.ErrForbidden)))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Logger.Error("websocket upgrade failed",
			zap.String("room_id", roomID.String()),
			zap.String("user", user.Username),
			zap.Error(err))
		return
	}

	client := NewClient(h.registry, conn, roomID, user, h.messages, h.storeTimeout, h.logger)
	h.registry.Join(roomID.String(), client)

	h.logger.Logger.Info("client joined room",
		zap.String("room_id", roomID.String()),
		zap.String("user", user.Username))

	go client.writePump()
	go client.readPump()
}

func (h *Handler) extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
