// Package queue is the review queue. Each submitted document has at most one
// item; the scheduler claims items one at a time with row-level locking.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Status is the claim state of a queue item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
)

// StaleClaimError is recorded as last_error when a claim is released by RequeueStale.
const StaleClaimError = "stale claim released"

// Item is a queued review request.
type Item struct {
	ID                uuid.UUID  `json:"id"`
	DocumentID        uuid.UUID  `json:"document_id"`
	QueuedAt          time.Time  `json:"queued_at"`
	Status            Status     `json:"status"`
	NotificationEmail *string    `json:"notification_email,omitempty"`
	LastError         *string    `json:"last_error,omitempty"`
	ClaimedAt         *time.Time `json:"claimed_at,omitempty"`
}

// Email returns the notification address, or "" when none was given.
func (i *Item) Email() string {
	if i.NotificationEmail == nil {
		return ""
	}
	return *i.NotificationEmail
}

// Stats summarizes queue depth.
type Stats struct {
	Pending         int        `json:"pending"`
	Processing      int        `json:"processing"`
	OldestPendingAt *time.Time `json:"oldest_pending_at,omitempty"`
}
