package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tradelink-chat/internal/domain/listing"
	"tradelink-chat/internal/domain/message"
	"tradelink-chat/internal/domain/room"
	"tradelink-chat/internal/repository"
	tradelink_errors "tradelink-chat/pkg/errors"
)

type memRoomRepo struct {
	rooms        map[uuid.UUID]room.Room
	byListing    map[uuid.UUID]uuid.UUID
	participants map[uuid.UUID]map[uuid.UUID]time.Time
	createHook   func(*room.Room) error
	addCalls     int
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{
		rooms:        map[uuid.UUID]room.Room{},
		byListing:    map[uuid.UUID]uuid.UUID{},
		participants: map[uuid.UUID]map[uuid.UUID]time.Time{},
	}
}

func (r *memRoomRepo) Create(_ context.Context, rm *room.Room) error {
	if r.createHook != nil {
		if err := r.createHook(rm); err != nil {
			return err
		}
	}
	if _, taken := r.byListing[rm.ListingID]; taken {
		return tradelink_errors.ErrAlreadyExists
	}
	r.rooms[rm.ID] = *rm
	r.byListing[rm.ListingID] = rm.ID
	r.participants[rm.ID] = map[uuid.UUID]time.Time{}
	return nil
}

func (r *memRoomRepo) GetByID(_ context.Context, id uuid.UUID) (room.Room, error) {
	rm, ok := r.rooms[id]
	if !ok {
		return room.Room{}, tradelink_errors.ErrNotFound
	}
	for userID, joinedAt := range r.participants[id] {
		rm.Participants = append(rm.Participants, room.Participant{
			RoomID:   id,
			UserID:   userID,
			JoinedAt: joinedAt,
		})
	}
	sort.Slice(rm.Participants, func(i, j int) bool {
		return rm.Participants[i].JoinedAt.Before(rm.Participants[j].JoinedAt)
	})
	return rm, nil
}

func (r *memRoomRepo) GetByListing(ctx context.Context, listingID uuid.UUID) (room.Room, error) {
	id, ok := r.byListing[listingID]
	if !ok {
		return room.Room{}, tradelink_errors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memRoomRepo) GetRoomsForUser(ctx context.Context, userID uuid.UUID) ([]room.Room, error) {
	var out []room.Room
	for roomID, members := range r.participants {
		if _, ok := members[userID]; ok {
			rm, err := r.GetByID(ctx, roomID)
			if err != nil {
				return nil, err
			}
			out = append(out, rm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRoomRepo) AddParticipant(_ context.Context, p *room.Participant) error {
	r.addCalls++
	members, ok := r.participants[p.RoomID]
	if !ok {
		return tradelink_errors.ErrNotFound
	}
	if _, exists := members[p.UserID]; !exists {
		members[p.UserID] = p.JoinedAt
	}
	return nil
}

func (r *memRoomRepo) IsParticipant(_ context.Context, roomID, userID uuid.UUID) (bool, error) {
	members, ok := r.participants[roomID]
	if !ok {
		return false, tradelink_errors.ErrNotFound
	}
	_, in := members[userID]
	return in, nil
}

type memListingRepo struct {
	listings map[uuid.UUID]listing.Listing
}

func (r *memListingRepo) GetByID(_ context.Context, id uuid.UUID) (listing.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return listing.Listing{}, tradelink_errors.ErrNotFound
	}
	return l, nil
}

type memMessageRepo struct {
	byRoom map[uuid.UUID][]message.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{byRoom: map[uuid.UUID][]message.Message{}}
}

func (r *memMessageRepo) Create(_ context.Context, m *message.Message) error {
	r.byRoom[m.RoomID] = append(r.byRoom[m.RoomID], *m)
	return nil
}

func (r *memMessageRepo) GetRoomMessages(_ context.Context, roomID uuid.UUID, order repository.Order) ([]message.Message, error) {
	msgs := r.byRoom[roomID]
	out := make([]message.Message, len(msgs))
	copy(out, msgs)
	if order == repository.OrderDescending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *memMessageRepo) GetLatestMessage(_ context.Context, roomID uuid.UUID) (message.Message, error) {
	msgs := r.byRoom[roomID]
	if len(msgs) == 0 {
		return message.Message{}, tradelink_errors.ErrNotFound
	}
	return msgs[len(msgs)-1], nil
}

type roomFixture struct {
	service  *RoomService
	rooms    *memRoomRepo
	messages *memMessageRepo
	listings *memListingRepo
	owner    uuid.UUID
	buyer    uuid.UUID
	listing  uuid.UUID
}

func newRoomFixture() *roomFixture {
	f := &roomFixture{
		rooms:    newMemRoomRepo(),
		messages: newMemMessageRepo(),
		owner:    uuid.New(),
		buyer:    uuid.New(),
		listing:  uuid.New(),
	}
	f.listings = &memListingRepo{listings: map[uuid.UUID]listing.Listing{
		f.listing: {ID: f.listing, OwnerID: f.owner, Title: "Kitchen renovation"},
	}}
	f.service = NewRoomService(nil, f.rooms, f.messages, f.listings)
	return f
}

func participantIDs(rm room.Room) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rm.Participants))
	for _, p := range rm.Participants {
		out = append(out, p.UserID)
	}
	return out
}

func TestRoomService_CreateOrGetRoom_FirstContact(t *testing.T) {
	f := newRoomFixture()

	rm, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)
	require.Equal(t, f.listing, rm.ListingID)
	require.ElementsMatch(t, []uuid.UUID{f.owner, f.buyer}, participantIDs(rm))
}

func TestRoomService_CreateOrGetRoom_Idempotent(t *testing.T) {
	f := newRoomFixture()

	first, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)

	second, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, second.Participants, 2)
}

func TestRoomService_CreateOrGetRoom_UnionsNewRequester(t *testing.T) {
	f := newRoomFixture()
	carol := uuid.New()

	first, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)

	second, err := f.service.CreateOrGetRoom(context.Background(), f.listing, carol)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.ElementsMatch(t, []uuid.UUID{f.owner, f.buyer, carol}, participantIDs(second))
}

func TestRoomService_CreateOrGetRoom_OwnerAsRequester(t *testing.T) {
	f := newRoomFixture()

	rm, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.owner)
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{f.owner}, participantIDs(rm))
}

func TestRoomService_CreateOrGetRoom_UnknownListing(t *testing.T) {
	f := newRoomFixture()

	_, err := f.service.CreateOrGetRoom(context.Background(), uuid.New(), f.buyer)
	require.ErrorIs(t, err, tradelink_errors.ErrNotFound)
}

func TestRoomService_CreateOrGetRoom_AdoptsRaceWinner(t *testing.T) {
	f := newRoomFixture()

	// A concurrent creator inserts its row between our existence check
	// and our insert; the unique constraint fires and we adopt theirs.
	winner := room.Room{ID: uuid.New(), ListingID: f.listing, CreatedAt: time.Now()}
	f.rooms.createHook = func(*room.Room) error {
		f.rooms.createHook = nil
		f.rooms.rooms[winner.ID] = winner
		f.rooms.byListing[winner.ListingID] = winner.ID
		f.rooms.participants[winner.ID] = map[uuid.UUID]time.Time{}
		return nil
	}

	rm, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)
	require.Equal(t, winner.ID, rm.ID)
	require.ElementsMatch(t, []uuid.UUID{f.owner, f.buyer}, participantIDs(rm))

	// The loser's insert was a no-op: no orphan row alongside the
	// winner's, and the membership writes landed on the winner's room.
	require.Len(t, f.rooms.rooms, 1)
}

func TestRoomService_CreateOrGetRoom_SkipsExistingParticipants(t *testing.T) {
	f := newRoomFixture()

	_, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)
	added := f.rooms.addCalls

	// Re-initiating the conversation finds both members already loaded
	// on the room and writes nothing.
	_, err = f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)
	require.Equal(t, added, f.rooms.addCalls)
}

func TestRoomService_IsParticipant(t *testing.T) {
	f := newRoomFixture()
	rm, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)

	ok, err := f.service.IsParticipant(context.Background(), rm.ID, f.buyer)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.service.IsParticipant(context.Background(), rm.ID, uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRoomService_IsParticipant_FailsClosedForUnknownRoom(t *testing.T) {
	f := newRoomFixture()

	ok, err := f.service.IsParticipant(context.Background(), uuid.New(), f.buyer)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRoomService_ListRoomsForIdentity(t *testing.T) {
	f := newRoomFixture()
	rm, err := f.service.CreateOrGetRoom(context.Background(), f.listing, f.buyer)
	require.NoError(t, err)

	otherListing := uuid.New()
	f.listings.listings[otherListing] = listing.Listing{ID: otherListing, OwnerID: f.owner, Title: "Fence repair"}
	quiet, err := f.service.CreateOrGetRoom(context.Background(), otherListing, f.buyer)
	require.NoError(t, err)

	last := message.Message{ID: uuid.New(), RoomID: rm.ID, SenderID: f.buyer, Content: "still available?", CreatedAt: time.Now().UTC()}
	require.NoError(t, f.messages.Create(context.Background(), &message.Message{ID: uuid.New(), RoomID: rm.ID, SenderID: f.owner, Content: "hello", CreatedAt: last.CreatedAt.Add(-time.Minute)}))
	require.NoError(t, f.messages.Create(context.Background(), &last))

	summaries, err := f.service.ListRoomsForIdentity(context.Background(), f.buyer)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byRoom := map[uuid.UUID]RoomSummary{}
	for _, s := range summaries {
		byRoom[s.Room.ID] = s
	}
	require.NotNil(t, byRoom[rm.ID].LastMessage)
	require.Equal(t, "still available?", byRoom[rm.ID].LastMessage.Content)
	require.Nil(t, byRoom[quiet.ID].LastMessage)
}

func TestRoomService_ListRoomsForIdentity_Empty(t *testing.T) {
	f := newRoomFixture()

	summaries, err := f.service.ListRoomsForIdentity(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, summaries)
}
