package listing

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a read model over the listing catalog. Listing CRUD is an
// upstream concern; the chat core only resolves ownership when a room
// is first created.
type Listing struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	CreatedAt time.Time
}

func (Listing) TableName() string {
	return "listings"
}
