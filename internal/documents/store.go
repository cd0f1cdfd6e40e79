package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/pkg/repository"
)

// Insert writes a new pending document using q, which may be a transaction.
func Insert(ctx context.Context, q repository.Querier, cmd CreateCommand) (*Document, error) {
	tags := cmd.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := encodeJSONB(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	d := &Document{
		ID:        uuid.New(),
		Title:     cmd.Title,
		Authors:   cmd.Authors,
		Content:   cmd.Content,
		Tags:      tags,
		Status:    StatusPending,
		Judgments: []Judgment{},
	}

	stmt := `
		INSERT INTO documents (id, title, authors, content, tags, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING submitted_at`

	var submittedAt time.Time
	err = q.QueryRowContext(ctx, stmt, d.ID, d.Title, d.Authors, d.Content, encoded, d.Status).
		Scan(&submittedAt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	d.SubmittedAt = submittedAt
	return d, nil
}

// RejectDeadLetter forces a document to rejected with a single dead-letter
// judgment using e, which may be a transaction. Redacted documents are left
// untouched. It reports whether a row was updated.
func RejectDeadLetter(ctx context.Context, e repository.Executor, id uuid.UUID, reason string) (bool, error) {
	encoded, err := encodeJSONB([]Judgment{DeadLetter(reason)})
	if err != nil {
		return false, fmt.Errorf("encode judgments: %w", err)
	}

	stmt := `
		UPDATE documents d
		SET status = $2, judgments = $3, total_review_cost = 0, total_tokens = 0, updated_at = NOW()
		WHERE d.id = $1 AND NOT COALESCE(` + blockedExpr + `, false)`

	n, err := repository.ExecCount(ctx, e, stmt, id, StatusRejected, encoded)
	if err != nil {
		return false, fmt.Errorf("reject document: %w", err)
	}
	return n > 0, nil
}

// ResetUnderReview returns an under_review document to pending using e.
func ResetUnderReview(ctx context.Context, e repository.Executor, id uuid.UUID) error {
	stmt := `
		UPDATE documents d
		SET status = $2, updated_at = NOW()
		WHERE d.id = $1 AND d.status = $3 AND NOT COALESCE(` + blockedExpr + `, false)`

	if _, err := e.ExecContext(ctx, stmt, id, StatusPending, StatusUnderReview); err != nil {
		return fmt.Errorf("reset document: %w", err)
	}
	return nil
}
