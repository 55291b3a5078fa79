package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tradelink-chat/internal/domain/message"
	"tradelink-chat/internal/services"
	tradelink_errors "tradelink-chat/pkg/errors"
	"tradelink-chat/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

var (
	errConnClosed     = errors.New("connection closed")
	errSendBufferFull = errors.New("send buffer full")
)

// MessageAppender persists one inbound frame as one durable message.
type MessageAppender interface {
	Append(ctx context.Context, roomID, senderID uuid.UUID, content string) (message.Message, error)
}

// Client is a single WebSocket connection subscribed to one room. Frames
// are handled sequentially in arrival order by the read pump; the write
// pump drains the buffered send channel.
type Client struct {
	id           string
	registry     *Registry
	conn         *websocket.Conn
	send         chan []byte
	done         chan struct{}
	roomID       uuid.UUID
	user         services.AuthUser
	messages     MessageAppender
	storeTimeout time.Duration
	logger       *logger.Logger
	closed       atomic.Bool
	closeOnce    sync.Once
}

func NewClient(registry *Registry, conn *websocket.Conn, roomID uuid.UUID, user services.AuthUser, messages MessageAppender, storeTimeout time.Duration, l *logger.Logger) *Client {
	if l == nil {
		l = logger.NewNop()
	}
	return &Client{
		id:           uuid.New().String(),
		registry:     registry,
		conn:         conn,
		send:         make(chan []byte, 256),
		done:         make(chan struct{}),
		roomID:       roomID,
		user:         user,
		messages:     messages,
		storeTimeout: storeTimeout,
		logger:       l,
	}
}

func (c *Client) Key() string {
	return c.id
}

// Deliver queues a broadcast payload without blocking the broadcaster.
// A closed connection or a backed-up send buffer reports failure so the
// registry can schedule removal.
func (c *Client) Deliver(payload []byte) error {
	if c.closed.Load() {
		return errConnClosed
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Logger.Warn("websocket unexpected close",
					zap.String("room_id", c.roomID.String()),
					zap.String("user", c.user.Username),
					zap.Error(err))
			}
			break
		}
		c.handleFrame(data)
	}
}

// handleFrame runs the Active-state self-loop for one inbound frame:
// parse, persist, then broadcast. Every per-frame error drops the frame
// and keeps the connection alive; the broadcast never precedes a
// completed append.
func (c *Client) handleFrame(data []byte) {
	frame, err := DecodeInbound(data)
	if err != nil {
		c.logger.Logger.Warn("dropping malformed frame",
			zap.String("room_id", c.roomID.String()),
			zap.String("user", c.user.Username))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout)
	defer cancel()

	msg, err := c.messages.Append(ctx, c.roomID, c.user.ID, *frame.Message)
	if err != nil {
		if errors.Is(err, tradelink_errors.ErrNotFound) {
			c.logger.Logger.Warn("room no longer exists, dropping frame",
				zap.String("room_id", c.roomID.String()),
				zap.String("user", c.user.Username))
		} else {
			c.logger.Logger.Error("message persist failed, dropping frame",
				zap.String("room_id", c.roomID.String()),
				zap.String("user", c.user.Username),
				zap.Error(err))
		}
		return
	}

	c.registry.Broadcast(c.roomID.String(), EncodeOutbound(msg.Content, c.user.Username, msg.CreatedAt))
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// close releases the registry membership exactly once; redundant close
// signals from the transport are absorbed here.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.registry.Leave(c.roomID.String(), c)
		close(c.done)
		c.conn.Close()
	})
}
