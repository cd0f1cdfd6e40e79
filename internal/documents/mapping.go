package documents

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/JaimeStill/slopjournal/internal/moderation"
	"github.com/JaimeStill/slopjournal/pkg/query"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

// blockedExpr is true when the stored moderation verdict blocked the row.
const blockedExpr = "(d.moderation->>'blocked')::boolean"

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("title", "Title").
	Project("authors", "Authors").
	Project("content", "Content").
	Project("tags", "Tags").
	Project("submitted_at", "SubmittedAt").
	Project("status", "Status").
	Project("judgments", "Judgments").
	Project("total_review_cost", "TotalReviewCost").
	Project("total_tokens", "TotalTokens").
	Project("moderation", "Moderation").
	Join("public", "public_identifiers", "pi", "LEFT JOIN", "pi.document_id = d.id").
	Project("public_id", "PublicID")

var summaryProjection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("submitted_at", "SubmittedAt").
	Project("status", "Status").
	Join("public", "public_identifiers", "pi", "LEFT JOIN", "pi.document_id = d.id").
	Project("public_id", "PublicID")

var newestFirst = []query.SortField{
	{Field: "SubmittedAt", Descending: true},
	{Field: "ID", Descending: true},
}

// Filters contains optional filtering criteria for public listings.
type Filters struct {
	Status *Status
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	status := StatusAccepted
	if f.Status != nil {
		status = *f.Status
	}
	return b.WhereEquals("Status", status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters
	if s := values.Get("status"); s != "" {
		st, err := ParseStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	return f, nil
}

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d                    Document
		tags, judgments, mod []byte
	)

	err := s.Scan(
		&d.ID,
		&d.Title,
		&d.Authors,
		&d.Content,
		&tags,
		&d.SubmittedAt,
		&d.Status,
		&judgments,
		&d.TotalReviewCost,
		&d.TotalTokens,
		&mod,
		&d.PublicID,
	)
	if err != nil {
		return d, err
	}

	if err := decodeJSONB(tags, &d.Tags); err != nil {
		return d, fmt.Errorf("decode tags: %w", err)
	}
	if err := decodeJSONB(judgments, &d.Judgments); err != nil {
		return d, fmt.Errorf("decode judgments: %w", err)
	}
	if len(mod) > 0 {
		var v moderation.Verdict
		if err := json.Unmarshal(mod, &v); err != nil {
			return d, fmt.Errorf("decode moderation: %w", err)
		}
		d.Moderation = &v
	}

	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.Judgments == nil {
		d.Judgments = []Judgment{}
	}

	return d, nil
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var sum Summary
	err := s.Scan(&sum.ID, &sum.SubmittedAt, &sum.Status, &sum.PublicID)
	return sum, err
}

func decodeJSONB(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func encodeJSONB(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}
