package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradelink-chat/internal/domain/identity"
	"tradelink-chat/internal/domain/listing"
	tradelink_errors "tradelink-chat/pkg/errors"
)

// The identity and listing catalogs are owned by upstream services; the
// repositories here are read-only lookups over their tables.

type PostgresIdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &PostgresIdentityRepository{db: db}
}

func (r *PostgresIdentityRepository) GetUserByID(ctx context.Context, id uuid.UUID) (identity.User, error) {
	var u identity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity.User{}, tradelink_errors.ErrNotFound
		}
		return identity.User{}, err
	}
	return u, nil
}

type PostgresListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &PostgresListingRepository{db: db}
}

func (r *PostgresListingRepository) GetByID(ctx context.Context, id uuid.UUID) (listing.Listing, error) {
	var l listing.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return listing.Listing{}, tradelink_errors.ErrNotFound
		}
		return listing.Listing{}, err
	}
	return l, nil
}
