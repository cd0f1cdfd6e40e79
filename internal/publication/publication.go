// Package publication runs the side effects that follow an acceptance:
// identifier minting, sitemap regeneration, and announcements.
package publication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/announcements"
	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/identifiers"
	"github.com/JaimeStill/slopjournal/internal/sitemap"
)

// Identifiers mints public identifiers.
type Identifiers interface {
	Mint(ctx context.Context, documentID uuid.UUID) (*identifiers.Identifier, error)
	Backfill(ctx context.Context) (int, error)
}

// Sitemap rebuilds the stored sitemap.
type Sitemap interface {
	Regenerate(ctx context.Context) (*sitemap.Artifact, error)
}

// Announcer posts publication announcements.
type Announcer interface {
	Enabled() bool
	EnsureHighlight(ctx context.Context, documentID uuid.UUID) error
	AnnouncePublication(ctx context.Context, doc *documents.Document) (*announcements.Announcement, error)
}

// Coordinator sequences the post-acceptance tasks. Each task is isolated:
// a failure is logged and the remaining tasks still run. An identifier
// conflict is the exception; it stops the sequence and is returned.
type Coordinator struct {
	identifiers Identifiers
	sitemap     Sitemap
	announcer   Announcer
	logger      *slog.Logger
}

// New creates a Coordinator.
func New(ids Identifiers, sm Sitemap, announcer Announcer, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		identifiers: ids,
		sitemap:     sm,
		announcer:   announcer,
		logger:      logger.With("system", "publication"),
	}
}

// Handler returns the operator handler for publication tasks.
func (c *Coordinator) Handler() *Handler {
	return NewHandler(c, c.logger)
}

// Published runs the post-acceptance tasks for doc. It returns only an
// identifier conflict, which must not be retried.
func (c *Coordinator) Published(ctx context.Context, doc *documents.Document) error {
	err := c.step(ctx, "mint identifier", doc.ID, func(ctx context.Context) error {
		id, err := c.identifiers.Mint(ctx, doc.ID)
		if err != nil {
			return err
		}
		doc.PublicID = &id.PublicID
		return nil
	})
	if err != nil {
		return err
	}

	c.step(ctx, "regenerate sitemap", doc.ID, func(ctx context.Context) error {
		_, err := c.sitemap.Regenerate(ctx)
		return err
	})

	c.step(ctx, "ensure highlight", doc.ID, func(ctx context.Context) error {
		return c.announcer.EnsureHighlight(ctx, doc.ID)
	})

	if c.announcer.Enabled() {
		c.step(ctx, "announce publication", doc.ID, func(ctx context.Context) error {
			_, err := c.announcer.AnnouncePublication(ctx, doc)
			return err
		})
	}
	return nil
}

// BackfillResult reports a backfill run.
type BackfillResult struct {
	Minted  int               `json:"minted"`
	Sitemap *sitemap.Artifact `json:"sitemap,omitempty"`
}

// Backfill mints identifiers for accepted papers that lack one and then
// regenerates the sitemap.
func (c *Coordinator) Backfill(ctx context.Context) (*BackfillResult, error) {
	minted, err := c.identifiers.Backfill(ctx)
	if err != nil {
		return nil, fmt.Errorf("backfill identifiers: %w", err)
	}

	artifact, err := c.sitemap.Regenerate(ctx)
	if err != nil {
		return &BackfillResult{Minted: minted}, fmt.Errorf("regenerate sitemap: %w", err)
	}

	return &BackfillResult{Minted: minted, Sitemap: artifact}, nil
}

// step runs one task, logging its failure. Only identifier conflicts are
// returned.
func (c *Coordinator) step(ctx context.Context, name string, documentID uuid.UUID, fn func(context.Context) error) (conflict error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "publication task panicked", "task", name, "document_id", documentID, "panic", r)
		}
	}()

	err := fn(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, identifiers.ErrAssignedToAnother), errors.Is(err, identifiers.ErrDifferentAssigned):
		c.logger.ErrorContext(ctx, "identifier conflict", "task", name, "document_id", documentID, "error", err)
		return err
	default:
		c.logger.WarnContext(ctx, "publication task failed", "task", name, "document_id", documentID, "error", err)
		return nil
	}
}
