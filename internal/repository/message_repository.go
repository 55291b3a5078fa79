package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradelink-chat/internal/domain/message"
	tradelink_errors "tradelink-chat/pkg/errors"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// GetRoomMessages returns the full history for a room. Ordering is by
// (created_at, id) so that wall-clock ties resolve to insertion order.
func (r *PostgresMessageRepository) GetRoomMessages(ctx context.Context, roomID uuid.UUID, order Order) ([]message.Message, error) {
	direction := "ASC"
	if order == OrderDescending {
		direction = "DESC"
	}

	var messages []message.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at " + direction).
		Order("id " + direction).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) GetLatestMessage(ctx context.Context, roomID uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Order("id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, tradelink_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}
