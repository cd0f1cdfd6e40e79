// Package announcements drafts and posts SLOPBOT messages for newly accepted
// papers and for the daily archival highlight.
package announcements

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the announcement trigger.
type Kind string

const (
	KindPublication    Kind = "new_publication"
	KindDailyHighlight Kind = "daily_highlight"
)

// Status is the recorded outcome of one attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Announcement is a recorded posting attempt.
type Announcement struct {
	ID          uuid.UUID  `json:"id"`
	Kind        Kind       `json:"kind"`
	DocumentID  *uuid.UUID `json:"document_id,omitempty"`
	HighlightID *uuid.UUID `json:"highlight_id,omitempty"`
	PostID      *string    `json:"post_id,omitempty"`
	Body        string     `json:"body"`
	Persona     string     `json:"persona"`
	Status      Status     `json:"status"`
	Error       *string    `json:"error,omitempty"`
	RunID       *string    `json:"run_id,omitempty"`
	PostedAt    time.Time  `json:"posted_at"`
}

// Highlight tracks whether an accepted paper has been featured in the
// current highlight rotation.
type Highlight struct {
	ID            uuid.UUID  `json:"id"`
	DocumentID    uuid.UUID  `json:"document_id"`
	HighlightedAt *time.Time `json:"highlighted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
