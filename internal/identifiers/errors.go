package identifiers

import (
	"errors"
	"net/http"
)

// Domain errors for identifier operations.
var (
	ErrNotFound          = errors.New("slop id not found")
	ErrInvalidPublicID   = errors.New("slop id must match slop:YYYY:NNNNNNNNNN")
	ErrAssignedToAnother = errors.New("Slop ID already assigned to another paper")
	ErrDifferentAssigned = errors.New("Paper already has a different Slop ID")
)

// MapHTTPStatus maps identifier domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPublicID):
		return http.StatusBadRequest
	case errors.Is(err, ErrAssignedToAnother), errors.Is(err, ErrDifferentAssigned):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
