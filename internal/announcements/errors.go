package announcements

import (
	"errors"
	"net/http"
)

// Domain errors for announcement operations.
var (
	ErrDisabled    = errors.New("announcements disabled")
	ErrNotAccepted = errors.New("only accepted papers are announced")
	ErrLinkTooLong = errors.New("paper link exceeds post length limit")
	ErrTooLong     = errors.New("post exceeds length limit")
	ErrEmptyDraft  = errors.New("model returned an empty draft")
)

// MapHTTPStatus maps an announcement error to an HTTP status code.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDisabled):
		return http.StatusConflict
	case errors.Is(err, ErrNotAccepted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
