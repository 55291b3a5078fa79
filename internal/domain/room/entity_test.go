package room

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRoomHasParticipant(t *testing.T) {
	member := uuid.New()
	rm := Room{
		ID:           uuid.New(),
		ListingID:    uuid.New(),
		Participants: []Participant{{UserID: member}},
	}

	require.True(t, rm.HasParticipant(member))
	require.False(t, rm.HasParticipant(uuid.New()))
	require.False(t, Room{}.HasParticipant(member))
}
