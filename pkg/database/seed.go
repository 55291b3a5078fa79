package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradelink-chat/internal/domain/identity"
	"tradelink-chat/internal/domain/listing"
	"tradelink-chat/internal/domain/room"
)

// SeedDev populates development fixtures: a handful of catalog users
// and listings (normally owned by the upstream services) plus one room
// wired between a listing owner and a counterpart. Idempotent.
func SeedDev(db *gorm.DB) error {
	password := "Test@123!"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := []identity.User{
		{ID: uuid.New(), Username: "alice", DisplayName: "Alice Johnson"},
		{ID: uuid.New(), Username: "bob", DisplayName: "Bob the Builder"},
		{ID: uuid.New(), Username: "carol", DisplayName: "Carol Chen"},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
		users[i].CreatedAt = time.Now()

		var existing identity.User
		if err := db.Where("username = ?", users[i].Username).First(&existing).Error; err == nil {
			users[i] = existing
			continue
		}
		if err := db.Create(&users[i]).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", users[i].Username, err)
		}
		log.Printf("Seeded user %s (%s)", users[i].Username, users[i].ID)
	}

	lst := listing.Listing{
		ID:        uuid.New(),
		OwnerID:   users[1].ID,
		Title:     "Kitchen renovation",
		CreatedAt: time.Now(),
	}
	var existingListing listing.Listing
	if err := db.Where("owner_id = ? AND title = ?", lst.OwnerID, lst.Title).First(&existingListing).Error; err == nil {
		lst = existingListing
	} else if err := db.Create(&lst).Error; err != nil {
		return fmt.Errorf("failed to seed listing: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		rm := room.Room{
			ID:        uuid.New(),
			ListingID: lst.ID,
			CreatedAt: time.Now(),
		}
		var existingRoom room.Room
		if err := tx.Where("listing_id = ?", lst.ID).First(&existingRoom).Error; err == nil {
			rm = existingRoom
		} else if err := tx.Create(&rm).Error; err != nil {
			return fmt.Errorf("failed to seed room: %w", err)
		}

		for _, u := range users[:2] {
			p := room.Participant{
				RoomID:   rm.ID,
				UserID:   u.ID,
				JoinedAt: time.Now(),
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
				return fmt.Errorf("failed to seed participant: %w", err)
			}
		}

		log.Printf("Seeded room %s for listing %q", rm.ID, lst.Title)
		return nil
	})
}

// TruncateAll clears every chat-owned table, catalog mirrors included.
// Development only.
func TruncateAll(db *gorm.DB) error {
	tables := []string{"messages", "room_participants", "chat_rooms", "listings", "users"}
	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " CASCADE").Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}
