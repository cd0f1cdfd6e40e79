package pagination

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultCursorLimit is the page size used when a cursor request omits limit.
	DefaultCursorLimit = 20
	// MaxCursorLimit is the largest page a cursor request may ask for.
	MaxCursorLimit = 50
)

// Cursor marks a position in a listing ordered by (SubmittedAt, ID) descending.
type Cursor struct {
	SubmittedAt time.Time
	ID          uuid.UUID
}

// Encode renders the cursor as an opaque base64url token.
func (c Cursor) Encode() string {
	raw := c.SubmittedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Cursor.Encode.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w", err)
	}

	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return Cursor{}, fmt.Errorf("malformed cursor")
	}

	submittedAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("cursor timestamp: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Cursor{}, fmt.Errorf("cursor id: %w", err)
	}

	return Cursor{SubmittedAt: submittedAt, ID: parsed}, nil
}

// CursorRequest is a keyset page request. After is nil for the first page.
type CursorRequest struct {
	After *Cursor
	Limit int
}

// ClampLimit bounds n to [1, MaxCursorLimit], using DefaultCursorLimit when n is unset.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultCursorLimit
	}
	return min(n, MaxCursorLimit)
}

// CursorRequestFromQuery parses cursor and limit parameters.
// An invalid cursor is ignored and the listing restarts from the top.
func CursorRequestFromQuery(values url.Values) CursorRequest {
	limit, _ := strconv.Atoi(values.Get("limit"))
	req := CursorRequest{Limit: ClampLimit(limit)}

	if token := values.Get("cursor"); token != "" {
		if c, err := DecodeCursor(token); err == nil {
			req.After = &c
		}
	}

	return req
}

// CursorResult holds one keyset page. Next is empty at the end of the listing.
type CursorResult[T any] struct {
	Data []T
	Next string
}
