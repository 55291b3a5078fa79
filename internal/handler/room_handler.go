package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradelink-chat/internal/repository"
	"tradelink-chat/internal/services"
	"tradelink-chat/internal/transport/httpdto"
	tradelink_errors "tradelink-chat/pkg/errors"
)

// RoomHandler serves the REST surface consumed by the inbox and chat
// screens: room listing, create-or-get, and message history.
type RoomHandler struct {
	rooms    *services.RoomService
	messages *services.MessageService
}

func NewRoomHandler(rooms *services.RoomService, messages *services.MessageService) *RoomHandler {
	return &RoomHandler{rooms: rooms, messages: messages}
}

func (h *RoomHandler) List(c *gin.Context) {
	user, ok := services.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(httpdto.FromError(tradelink_errors.ErrUnauthorized))
		return
	}

	summaries, err := h.rooms.ListRoomsForIdentity(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(httpdto.FromError(err))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListRoomsResponse{
		Rooms: httpdto.FromRoomSummarySlice(summaries),
	}))
}

func (h *RoomHandler) CreateOrGet(c *gin.Context) {
	var req httpdto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(httpdto.FromError(fmt.Errorf("invalid request: %w", tradelink_errors.ErrInvalidInput)))
		return
	}

	user, ok := services.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(httpdto.FromError(tradelink_errors.ErrUnauthorized))
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		c.JSON(httpdto.FromError(fmt.Errorf("invalid listing id: %w", tradelink_errors.ErrInvalidInput)))
		return
	}

	rm, err := h.rooms.CreateOrGetRoom(c.Request.Context(), listingID, user.ID)
	if err != nil {
		if errors.Is(err, tradelink_errors.ErrNotFound) {
			err = fmt.Errorf("listing not found: %w", err)
		}
		c.JSON(httpdto.FromError(err))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromRoomSummary(services.RoomSummary{Room: rm})))
}

func (h *RoomHandler) ListMessages(c *gin.Context) {
	user, ok := services.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(httpdto.FromError(tradelink_errors.ErrUnauthorized))
		return
	}

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(httpdto.FromError(fmt.Errorf("invalid room id: %w", tradelink_errors.ErrInvalidInput)))
		return
	}

	isParticipant, err := h.rooms.IsParticipant(c.Request.Context(), roomID, user.ID)
	if err != nil {
		c.JSON(httpdto.FromError(err))
		return
	}
	if !isParticipant {
		c.JSON(httpdto.FromError(fmt.Errorf("not a participant of this room: %w", tradelink_errors.ErrForbidden)))
		return
	}

	order := repository.OrderAscending
	if c.Query("order") == string(repository.OrderDescending) {
		order = repository.OrderDescending
	}

	messages, err := h.messages.ListMessages(c.Request.Context(), roomID, order)
	if err != nil {
		if errors.Is(err, tradelink_errors.ErrNotFound) {
			err = fmt.Errorf("room not found: %w", err)
		}
		c.JSON(httpdto.FromError(err))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListMessagesResponse{
		Messages: httpdto.FromMessageSlice(messages),
	}))
}
