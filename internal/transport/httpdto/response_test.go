package httpdto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	tradelink_errors "tradelink-chat/pkg/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", tradelink_errors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", tradelink_errors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"not found", tradelink_errors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already exists", tradelink_errors.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{"invalid input", tradelink_errors.ErrInvalidInput, http.StatusBadRequest, "INVALID_REQUEST"},
		{"rate limited", tradelink_errors.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unrecognized", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := FromError(tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.code, resp.Code)
			require.Equal(t, tc.err.Error(), resp.Error)
			require.False(t, resp.Success)
		})
	}
}

func TestFromError_WrappedSentinelKeepsDetail(t *testing.T) {
	err := fmt.Errorf("not a participant of this room: %w", tradelink_errors.ErrForbidden)

	status, resp := FromError(err)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "FORBIDDEN", resp.Code)
	require.Equal(t, "not a participant of this room: forbidden", resp.Error)
}
