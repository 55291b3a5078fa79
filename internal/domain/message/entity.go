package message

import (
	"time"

	"github.com/google/uuid"
)

// Message represents the messages table. Rows are append-only: the chat
// core never updates or deletes them. CreatedAt is server-assigned;
// wall-clock ties are broken by ID for display ordering.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null"`
	Content   string
	CreatedAt time.Time
}

func (Message) TableName() string {
	return "messages"
}
