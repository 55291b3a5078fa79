package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is a read model over the identity catalog. The chat core never
// writes this table; registration and verification live upstream.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	DisplayName  string
	PasswordHash string // owned by the upstream auth provider; never read here
	CreatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}
