package httpdto

import (
	"time"

	"tradelink-chat/internal/domain/message"
)

type MessageResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

func FromMessage(m message.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		RoomID:    m.RoomID.String(),
		SenderID:  m.SenderID.String(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func FromMessageSlice(messages []message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, FromMessage(m))
	}
	return out
}
