package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	frame, err := DecodeInbound([]byte(`{"message":"hi","time":"10:30"}`))
	require.NoError(t, err)
	require.Equal(t, "hi", *frame.Message)
	require.Equal(t, "10:30", *frame.Time)

	frame, err = DecodeInbound([]byte(`{"message":"no clock"}`))
	require.NoError(t, err)
	require.Nil(t, frame.Time)

	// Empty content is accepted as-is.
	frame, err = DecodeInbound([]byte(`{"message":""}`))
	require.NoError(t, err)
	require.Equal(t, "", *frame.Message)
}

func TestDecodeInbound_Malformed(t *testing.T) {
	for _, payload := range []string{
		`not json at all`,
		`{"time":"10:30"}`,
		`[1,2,3]`,
		``,
	} {
		_, err := DecodeInbound([]byte(payload))
		require.ErrorIs(t, err, ErrMalformedFrame, "payload %q", payload)
	}
}

func TestEncodeOutbound(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := EncodeOutbound("hello", "alice", at)

	var frame OutboundFrame
	require.NoError(t, json.Unmarshal(payload, &frame))
	require.Equal(t, "hello", frame.Message)
	require.Equal(t, "alice", frame.Username)
	require.Equal(t, at.Format(time.RFC3339Nano), frame.Time)
}
