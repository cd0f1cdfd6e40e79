package intake

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/queue"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

// System accepts submissions.
type System interface {
	Handler(maxBodySize int64) *Handler
	// Submit validates s and, when valid, writes the pending document and
	// its queue item in one transaction.
	Submit(ctx context.Context, s Submission) (uuid.UUID, error)
}

type intake struct {
	db     *sql.DB
	cfg    *Config
	logger *slog.Logger
}

// New creates the intake system.
func New(db *sql.DB, cfg *Config, logger *slog.Logger) System {
	return &intake{
		db:     db,
		cfg:    cfg,
		logger: logger.With("system", "intake"),
	}
}

func (i *intake) Handler(maxBodySize int64) *Handler {
	return NewHandler(i, i.logger, maxBodySize)
}

func (i *intake) Submit(ctx context.Context, s Submission) (uuid.UUID, error) {
	if details := s.Validate(i.cfg); len(details) > 0 {
		return uuid.Nil, &ValidationError{Details: details}
	}

	cmd := s.Command()
	email := strings.TrimSpace(s.NotificationEmail)

	doc, err := repository.WithTx(ctx, i.db, func(tx *sql.Tx) (*documents.Document, error) {
		doc, err := documents.Insert(ctx, tx, cmd)
		if err != nil {
			return nil, fmt.Errorf("insert document: %w", err)
		}
		if _, err := queue.Enqueue(ctx, tx, doc.ID, email); err != nil {
			return nil, fmt.Errorf("enqueue document: %w", err)
		}
		return doc, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	i.logger.InfoContext(ctx, "paper submitted",
		"id", doc.ID,
		"tags", doc.Tags,
		"notify", email != "",
	)
	return doc.ID, nil
}
