package documents

import (
	"errors"
	"net/http"
)

// Domain errors for document operations.
var (
	ErrNotFound      = errors.New("paper not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrRedacted      = errors.New("document is redacted")
	ErrInvalidID     = errors.New("invalid paper id")
	ErrInvalidStatus = errors.New("invalid document status")
	ErrNotBlocked    = errors.New("redaction requires a blocked verdict")
	ErrDecided       = errors.New("document review is already decided")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrRedacted) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrDecided) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) || errors.Is(err, ErrInvalidStatus) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
