package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
	"github.com/JaimeStill/slopjournal/pkg/query"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

const acquireSQL = `
	UPDATE queue_items q
	SET status = 'processing', claimed_at = NOW()
	WHERE q.id = (
		SELECT id FROM queue_items
		WHERE status = 'pending'
		ORDER BY queued_at, id
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	)
	RETURNING ` + returning

const requeueSQL = `
	UPDATE queue_items q
	SET status = 'pending', claimed_at = NULL, last_error = $2
	WHERE q.status = 'processing' AND q.claimed_at < NOW() - make_interval(secs => $1)
	RETURNING q.document_id`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a queue repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "queue"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Enqueue(ctx context.Context, documentID uuid.UUID, email string) (uuid.UUID, error) {
	return Enqueue(ctx, r.db, documentID, email)
}

func (r *repo) AcquireNext(ctx context.Context) (*Item, error) {
	item, err := repository.QueryOne(ctx, r.db, acquireSQL, nil, scanItem)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("acquire queue item: %w", err)
	}

	r.logger.InfoContext(ctx, "queue item claimed", "id", item.ID, "document_id", item.DocumentID)
	return &item, nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM queue_items WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) RejectAndDrop(ctx context.Context, id, documentID uuid.UUID, reason string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		updated, err := documents.RejectDeadLetter(ctx, tx, documentID, reason)
		if err != nil {
			return struct{}{}, err
		}
		if !updated {
			r.logger.WarnContext(ctx, "dead-letter document missing or redacted", "document_id", documentID)
		}

		if err := repository.ExecExpectOne(ctx, tx, "DELETE FROM queue_items WHERE id = $1", id); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.WarnContext(ctx, "queue item dead-lettered", "id", id, "document_id", documentID, "reason", reason)
	return nil
}

func (r *repo) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, ErrInvalidAfter
	}

	released, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		ids, err := repository.QueryMany(ctx, tx, requeueSQL,
			[]any{olderThan.Seconds(), StaleClaimError},
			repository.ScanColumn[uuid.UUID],
		)
		if err != nil {
			return 0, err
		}

		for _, id := range ids {
			if err := documents.ResetUnderReview(ctx, tx, id); err != nil {
				return 0, err
			}
		}
		return int64(len(ids)), nil
	})
	if err != nil {
		return 0, fmt.Errorf("requeue stale items: %w", err)
	}

	if released > 0 {
		r.logger.WarnContext(ctx, "stale claims released", "count", released, "older_than", olderThan)
	}
	return released, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Item], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "NotificationEmail", "LastError")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count queue items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query queue items: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	q := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			MIN(queued_at) FILTER (WHERE status = 'pending')
		FROM queue_items`

	var s Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Pending, &s.Processing, &s.OldestPendingAt); err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	return &s, nil
}
