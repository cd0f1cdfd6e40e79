package queue

import (
	"errors"
	"net/http"
)

// Domain errors for queue operations.
var (
	ErrNotFound     = errors.New("queue item not found")
	ErrDuplicate    = errors.New("queue item already exists")
	ErrInvalidAfter = errors.New("invalid stale duration")
)

// MapHTTPStatus maps queue domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidAfter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
