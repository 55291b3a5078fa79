package httpdto

import (
	"errors"
	"net/http"

	tradelink_errors "tradelink-chat/pkg/errors"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// FromError maps a sentinel (possibly wrapped with request detail) to
// the HTTP status and wire envelope for that rejection. Unrecognized
// errors become a 500.
func FromError(err error) (int, Response[any]) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	switch {
	case errors.Is(err, tradelink_errors.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, tradelink_errors.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, tradelink_errors.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, tradelink_errors.ErrAlreadyExists):
		status, code = http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, tradelink_errors.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, tradelink_errors.ErrRateLimited):
		status, code = http.StatusTooManyRequests, "RATE_LIMITED"
	}
	return status, NewErrorResponse(err.Error(), code)
}
