package room

import (
	"time"

	"github.com/google/uuid"
)

// Room represents the chat_rooms table. The uniqueIndex on ListingID
// enforces at most one room per listing; concurrent creators race on it
// and the loser adopts the winner's row.
type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time

	// Relationships
	Participants []Participant
}

// Participant represents the room_participants table.
type Participant struct {
	RoomID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	JoinedAt time.Time
}

// HasParticipant reports whether userID is in the room's participant set.
// Participants must be loaded.
func (r Room) HasParticipant(userID uuid.UUID) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func (Room) TableName() string {
	return "chat_rooms"
}

func (Participant) TableName() string {
	return "room_participants"
}
