package queue

import (
	"net/url"

	"github.com/JaimeStill/slopjournal/pkg/query"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

const returning = "q.id, q.document_id, q.queued_at, q.status, q.notification_email, q.last_error, q.claimed_at"

var projection = query.
	NewProjectionMap("public", "queue_items", "q").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("queued_at", "QueuedAt").
	Project("status", "Status").
	Project("notification_email", "NotificationEmail").
	Project("last_error", "LastError").
	Project("claimed_at", "ClaimedAt")

var defaultSort = query.SortField{Field: "QueuedAt"}

// Filters contains optional filtering criteria for queue listings.
type Filters struct {
	Status *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	return f
}

func scanItem(s repository.Scanner) (Item, error) {
	var i Item
	err := s.Scan(
		&i.ID,
		&i.DocumentID,
		&i.QueuedAt,
		&i.Status,
		&i.NotificationEmail,
		&i.LastError,
		&i.ClaimedAt,
	)
	return i, err
}
