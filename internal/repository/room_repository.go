package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradelink-chat/internal/domain/room"
	tradelink_errors "tradelink-chat/pkg/errors"
)

type PostgresRoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &PostgresRoomRepository{db: db}
}

// Create inserts the room unless another row already claims the
// listing. The conflict is absorbed by ON CONFLICT DO NOTHING rather
// than raised, so a losing creator's transaction is never aborted and
// the adoption re-read that follows still runs on it.
func (r *PostgresRoomRepository) Create(ctx context.Context, rm *room.Room) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "listing_id"}},
			DoNothing: true,
		}).
		Create(rm)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return tradelink_errors.ErrAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tradelink_errors.ErrAlreadyExists
	}
	return nil
}

func (r *PostgresRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (room.Room, error) {
	var rm room.Room
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("id = ?", id).
		First(&rm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room.Room{}, tradelink_errors.ErrNotFound
		}
		return room.Room{}, err
	}
	return rm, nil
}

func (r *PostgresRoomRepository) GetByListing(ctx context.Context, listingID uuid.UUID) (room.Room, error) {
	var rm room.Room
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("listing_id = ?", listingID).
		First(&rm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room.Room{}, tradelink_errors.ErrNotFound
		}
		return room.Room{}, err
	}
	return rm, nil
}

func (r *PostgresRoomRepository) GetRoomsForUser(ctx context.Context, userID uuid.UUID) ([]room.Room, error) {
	var rooms []room.Room

	subQuery := r.db.Model(&room.Participant{}).
		Select("room_id").
		Where("user_id = ?", userID)

	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("id IN (?)", subQuery).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// AddParticipant is a no-op when the participant row already exists, so
// re-initiating a conversation never duplicates membership.
func (r *PostgresRoomRepository) AddParticipant(ctx context.Context, p *room.Participant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
}

func (r *PostgresRoomRepository) IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&room.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
