package chat

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrMalformedFrame marks an inbound payload that does not parse as the
// frame schema. Malformed frames are dropped without closing the
// connection.
var ErrMalformedFrame = errors.New("malformed frame")

// InboundFrame is the client-to-server unit. The client-supplied time is
// advisory only and never used for storage ordering.
type InboundFrame struct {
	Message *string `json:"message"`
	Time    *string `json:"time"`
}

// OutboundFrame is fanned out to every subscriber of a room. Time is the
// server-assigned persistence timestamp.
type OutboundFrame struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Time     string `json:"time"`
}

// DecodeInbound validates an inbound payload. The message field must be
// present; its content may be empty and is stored as-is.
func DecodeInbound(data []byte) (InboundFrame, error) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return InboundFrame{}, ErrMalformedFrame
	}
	if frame.Message == nil {
		return InboundFrame{}, ErrMalformedFrame
	}
	return frame, nil
}

// EncodeOutbound builds the broadcast payload for a persisted message.
func EncodeOutbound(content, username string, at time.Time) []byte {
	payload, _ := json.Marshal(OutboundFrame{
		Message:  content,
		Username: username,
		Time:     at.Format(time.RFC3339Nano),
	})
	return payload
}
