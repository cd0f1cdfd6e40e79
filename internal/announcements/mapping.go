package announcements

import (
	"net/url"

	"github.com/JaimeStill/slopjournal/pkg/query"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "announcements", "a").
	Project("id", "ID").
	Project("kind", "Kind").
	Project("document_id", "DocumentID").
	Project("highlight_id", "HighlightID").
	Project("post_id", "PostID").
	Project("body", "Body").
	Project("persona", "Persona").
	Project("status", "Status").
	Project("error", "Error").
	Project("run_id", "RunID").
	Project("posted_at", "PostedAt")

var defaultSort = query.SortField{Field: "PostedAt", Descending: true}

// Filters contains optional filtering criteria for announcement listings.
type Filters struct {
	Kind   *string `json:"kind,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Kind", f.Kind).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if k := values.Get("kind"); k != "" {
		f.Kind = &k
	}
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	return f
}

func scanAnnouncement(s repository.Scanner) (Announcement, error) {
	var a Announcement
	err := s.Scan(
		&a.ID,
		&a.Kind,
		&a.DocumentID,
		&a.HighlightID,
		&a.PostID,
		&a.Body,
		&a.Persona,
		&a.Status,
		&a.Error,
		&a.RunID,
		&a.PostedAt,
	)
	return a, err
}

func scanHighlight(s repository.Scanner) (Highlight, error) {
	var h Highlight
	err := s.Scan(&h.ID, &h.DocumentID, &h.HighlightedAt, &h.CreatedAt)
	return h, err
}
