package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradelink-chat/internal/domain/message"
	"tradelink-chat/internal/domain/room"
	"tradelink-chat/internal/repository"
	tradelink_errors "tradelink-chat/pkg/errors"
)

// RoomService owns the room data model and the participation predicate
// that gates every chat connection.
type RoomService struct {
	db          *gorm.DB
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
	listingRepo repository.ListingRepository
}

func NewRoomService(db *gorm.DB, roomRepo repository.RoomRepository, messageRepo repository.MessageRepository, listingRepo repository.ListingRepository) *RoomService {
	return &RoomService{
		db:          db,
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		listingRepo: listingRepo,
	}
}

// RoomSummary annotates a room with its most recent message for the
// inbox view. LastMessage is nil for a room with no history yet.
type RoomSummary struct {
	Room        room.Room
	LastMessage *message.Message
}

// IsParticipant reports whether userID belongs to the room. A missing
// room resolves to false: the gate fails closed.
func (s *RoomService) IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	ok, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, tradelink_errors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomID uuid.UUID) (room.Room, error) {
	return s.roomRepo.GetByID(ctx, roomID)
}

// CreateOrGetRoom returns the room for a listing, creating it on first
// contact between the listing owner and the requester. Idempotent: a
// second call for the same listing returns the existing room and unions
// the requester into its participant set. Concurrent creators race on
// the listing_id uniqueness constraint; the loser adopts the winner's
// row inside the same transaction.
func (s *RoomService) CreateOrGetRoom(ctx context.Context, listingID, requesterID uuid.UUID) (room.Room, error) {
	lst, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return room.Room{}, err
	}

	participantIDs := []uuid.UUID{lst.OwnerID}
	if requesterID != lst.OwnerID {
		participantIDs = append(participantIDs, requesterID)
	}

	if s.db == nil {
		return s.createOrGet(ctx, s.roomRepo, listingID, participantIDs)
	}

	var result room.Room
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rm, err := s.createOrGet(ctx, repository.NewRoomRepository(tx), listingID, participantIDs)
		if err != nil {
			return err
		}
		result = rm
		return nil
	})
	if err != nil {
		return room.Room{}, err
	}
	return result, nil
}

func (s *RoomService) createOrGet(ctx context.Context, roomRepo repository.RoomRepository, listingID uuid.UUID, participantIDs []uuid.UUID) (room.Room, error) {
	rm, err := roomRepo.GetByListing(ctx, listingID)
	if errors.Is(err, tradelink_errors.ErrNotFound) {
		rm = room.Room{
			ID:        uuid.New(),
			ListingID: listingID,
			CreatedAt: time.Now(),
		}
		if err := roomRepo.Create(ctx, &rm); err != nil {
			if !errors.Is(err, tradelink_errors.ErrAlreadyExists) {
				return room.Room{}, err
			}
			// Lost the creation race; adopt the winner's room.
			rm, err = roomRepo.GetByListing(ctx, listingID)
			if err != nil {
				return room.Room{}, err
			}
		}
	} else if err != nil {
		return room.Room{}, err
	}

	for _, userID := range participantIDs {
		if rm.HasParticipant(userID) {
			continue
		}
		p := &room.Participant{
			RoomID:   rm.ID,
			UserID:   userID,
			JoinedAt: time.Now(),
		}
		if err := roomRepo.AddParticipant(ctx, p); err != nil {
			return room.Room{}, err
		}
	}

	return roomRepo.GetByID(ctx, rm.ID)
}

// ListRoomsForIdentity returns every room the identity participates in,
// newest first, each with its latest message when one exists.
func (s *RoomService) ListRoomsForIdentity(ctx context.Context, userID uuid.UUID) ([]RoomSummary, error) {
	rooms, err := s.roomRepo.GetRoomsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, rm := range rooms {
		summary := RoomSummary{Room: rm}
		last, err := s.messageRepo.GetLatestMessage(ctx, rm.ID)
		if err == nil {
			summary.LastMessage = &last
		} else if !errors.Is(err, tradelink_errors.ErrNotFound) {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
