package repository

import (
	"context"

	"github.com/google/uuid"

	"tradelink-chat/internal/domain/identity"
	"tradelink-chat/internal/domain/listing"
	"tradelink-chat/internal/domain/message"
	"tradelink-chat/internal/domain/room"
)

// Order selects the sort direction for message history reads.
type Order string

const (
	OrderAscending  Order = "asc"
	OrderDescending Order = "desc"
)

type RoomRepository interface {
	Create(ctx context.Context, r *room.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (room.Room, error)
	GetByListing(ctx context.Context, listingID uuid.UUID) (room.Room, error)
	GetRoomsForUser(ctx context.Context, userID uuid.UUID) ([]room.Room, error)

	AddParticipant(ctx context.Context, p *room.Participant) error
	IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetRoomMessages(ctx context.Context, roomID uuid.UUID, order Order) ([]message.Message, error)
	GetLatestMessage(ctx context.Context, roomID uuid.UUID) (message.Message, error)
}

// IdentityRepository reads the upstream identity catalog.
type IdentityRepository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (identity.User, error)
}

// ListingRepository reads the upstream listing catalog.
type ListingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (listing.Listing, error)
}
