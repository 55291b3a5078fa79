package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tradelink-chat/internal/domain/message"
	"tradelink-chat/internal/repository"
)

// MessageService owns the append-only message log.
type MessageService struct {
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
}

func NewMessageService(roomRepo repository.RoomRepository, messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
	}
}

// Append writes exactly one durable row for an accepted frame. Returns
// ErrNotFound when the room no longer resolves (deleted concurrently);
// the caller drops the frame without broadcasting. Content is stored
// as-is, empty strings included. No deduplication: retried frames are
// the client's problem.
func (s *MessageService) Append(ctx context.Context, roomID, senderID uuid.UUID, content string) (message.Message, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return message.Message{}, err
	}

	m := message.Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, &m); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

// ListMessages returns a room's history. ErrNotFound for unknown rooms.
func (s *MessageService) ListMessages(ctx context.Context, roomID uuid.UUID, order repository.Order) ([]message.Message, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetRoomMessages(ctx, roomID, order)
}
