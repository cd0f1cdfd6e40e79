package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/moderation"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
	"github.com/JaimeStill/slopjournal/pkg/query"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a document repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "documents"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) FindPublic(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).
		WhereEquals("ID", id).
		WhereNotTrue(blockedExpr).
		BuildSingleOrNull()

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) ListPublic(
	ctx context.Context,
	page pagination.CursorRequest,
	filters Filters,
) (*pagination.CursorResult[Document], error) {
	limit := pagination.ClampLimit(page.Limit)

	qb := query.NewBuilder(projection, newestFirst...).WhereNotTrue(blockedExpr)
	filters.Apply(qb)
	if page.After != nil {
		qb.WhereBefore(
			[]string{"SubmittedAt", "ID"},
			[]any{page.After.SubmittedAt, page.After.ID},
		)
	}

	q, args := qb.BuildLimit(limit + 1)
	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := &pagination.CursorResult[Document]{Data: docs}
	if len(docs) > limit {
		result.Data = docs[:limit]
		last := result.Data[limit-1]
		result.Next = pagination.Cursor{SubmittedAt: last.SubmittedAt, ID: last.ID}.Encode()
	}
	return result, nil
}

func (r *repo) MarkUnderReview(ctx context.Context, id uuid.UUID) error {
	q := `
		UPDATE documents d
		SET status = $2, updated_at = NOW()
		WHERE d.id = $1 AND d.status IN ($3, $2) AND NOT COALESCE(` + blockedExpr + `, false)`

	if err := repository.ExecExpectOne(ctx, r.db, q, id, StatusUnderReview, StatusPending); err != nil {
		return r.updateError(ctx, id, err)
	}
	return nil
}

func (r *repo) Finalize(ctx context.Context, id uuid.UUID, outcome Outcome) error {
	if outcome.Status != StatusAccepted && outcome.Status != StatusRejected {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, outcome.Status)
	}

	judgments := outcome.Judgments
	if judgments == nil {
		judgments = []Judgment{}
	}
	encoded, err := encodeJSONB(judgments)
	if err != nil {
		return fmt.Errorf("encode judgments: %w", err)
	}

	q := `
		UPDATE documents d
		SET status = $2, judgments = $3, total_review_cost = $4, total_tokens = $5, updated_at = NOW()
		WHERE d.id = $1 AND d.status IN ($6, $7) AND NOT COALESCE(` + blockedExpr + `, false)`

	err = repository.ExecExpectOne(ctx, r.db, q,
		id, outcome.Status, encoded, outcome.TotalReviewCost, outcome.TotalTokens,
		StatusPending, StatusUnderReview,
	)
	if err != nil {
		return r.updateError(ctx, id, err)
	}

	r.logger.InfoContext(ctx, "document finalized",
		"id", id,
		"status", outcome.Status,
		"cost", outcome.TotalReviewCost,
		"tokens", outcome.TotalTokens,
	)
	return nil
}

func (r *repo) Redact(ctx context.Context, id uuid.UUID, verdict moderation.Verdict) error {
	if !verdict.Blocked {
		return ErrNotBlocked
	}

	encoded, err := encodeJSONB(verdict)
	if err != nil {
		return fmt.Errorf("encode moderation: %w", err)
	}

	q := `
		UPDATE documents d
		SET title = $2, authors = $2, content = $2,
			tags = '[]'::jsonb, judgments = '[]'::jsonb,
			total_review_cost = 0, total_tokens = 0,
			status = $3, moderation = $4, updated_at = NOW()
		WHERE d.id = $1 AND NOT COALESCE(` + blockedExpr + `, false)`

	if err := repository.ExecExpectOne(ctx, r.db, q, id, RedactedMarker, StatusRejected, encoded); err != nil {
		return r.updateError(ctx, id, err)
	}

	r.logger.WarnContext(ctx, "document redacted", "id", id, "reason", verdict.Reason)
	return nil
}

func (r *repo) ListAccepted(ctx context.Context) ([]Summary, error) {
	q, args := query.NewBuilder(summaryProjection, newestFirst...).
		WhereEquals("Status", StatusAccepted).
		WhereNotTrue(blockedExpr).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query accepted documents: %w", err)
	}
	return items, nil
}

func (r *repo) ListAcceptedMissingIdentifier(ctx context.Context) ([]Summary, error) {
	q, args := query.NewBuilder(summaryProjection, newestFirst...).
		WhereEquals("Status", StatusAccepted).
		WhereNotTrue(blockedExpr).
		WhereNullable("PublicID", nil).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query documents missing identifiers: %w", err)
	}
	return items, nil
}

// updateError explains why a guarded update affected nothing: the row is
// missing, redacted, or already decided.
func (r *repo) updateError(ctx context.Context, id uuid.UUID, err error) error {
	if repository.IsCheckViolation(err) {
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var (
		blocked bool
		status  Status
	)
	q := `SELECT COALESCE(` + blockedExpr + `, false), d.status FROM documents d WHERE d.id = $1`
	if scanErr := r.db.QueryRowContext(ctx, q, id).Scan(&blocked, &status); scanErr != nil {
		return repository.MapError(scanErr, ErrNotFound, ErrDuplicate)
	}
	switch {
	case blocked:
		return ErrRedacted
	case status.Terminal():
		return fmt.Errorf("%w: %s", ErrDecided, status)
	}
	return ErrNotFound
}
