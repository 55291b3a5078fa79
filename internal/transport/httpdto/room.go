package httpdto

import (
	"time"

	"tradelink-chat/internal/services"
)

type CreateRoomRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
}

type RoomResponse struct {
	ID           string           `json:"id"`
	ListingID    string           `json:"listing_id"`
	Participants []string         `json:"participants"`
	CreatedAt    time.Time        `json:"created_at"`
	LastMessage  *MessageResponse `json:"last_message,omitempty"`
}

type ListRoomsResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

func FromRoomSummary(s services.RoomSummary) RoomResponse {
	participants := make([]string, 0, len(s.Room.Participants))
	for _, p := range s.Room.Participants {
		participants = append(participants, p.UserID.String())
	}
	resp := RoomResponse{
		ID:           s.Room.ID.String(),
		ListingID:    s.Room.ListingID.String(),
		Participants: participants,
		CreatedAt:    s.Room.CreatedAt,
	}
	if s.LastMessage != nil {
		m := FromMessage(*s.LastMessage)
		resp.LastMessage = &m
	}
	return resp
}

func FromRoomSummarySlice(summaries []services.RoomSummary) []RoomResponse {
	rooms := make([]RoomResponse, 0, len(summaries))
	for _, s := range summaries {
		rooms = append(rooms, FromRoomSummary(s))
	}
	return rooms
}
