package sitemap

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/pkg/repository"
	"github.com/JaimeStill/slopjournal/pkg/storage"
)

// ContentType is the media type of the stored and served sitemap.
const ContentType = "application/xml; charset=utf-8"

// System defines the public contract for sitemap operations.
type System interface {
	Handler() *Handler

	// Regenerate rebuilds the sitemap from the accepted papers, uploads it,
	// and records its metadata.
	Regenerate(ctx context.Context) (*Artifact, error)
	// Latest returns the current artifact and its bytes.
	Latest(ctx context.Context) (*Artifact, []byte, error)
}

// Papers lists the documents the sitemap publishes.
type Papers interface {
	ListAccepted(ctx context.Context) ([]documents.Summary, error)
}

type repo struct {
	db      *sql.DB
	store   storage.System
	papers  Papers
	siteURL string
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a sitemap repository implementing the System interface.
func New(db *sql.DB, store storage.System, papers Papers, siteURL string, logger *slog.Logger) System {
	return &repo{
		db:      db,
		store:   store,
		papers:  papers,
		siteURL: siteURL,
		logger:  logger.With("system", "sitemap"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var a Artifact
	err := s.Scan(&a.Name, &a.StorageKey, &a.GeneratedAt, &a.Hash, &a.EntryCount, &a.ContentLength)
	return a, err
}

func (r *repo) Regenerate(ctx context.Context) (*Artifact, error) {
	papers, err := r.papers.ListAccepted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}

	data, count, err := Build(r.siteURL, papers)
	if err != nil {
		return nil, err
	}

	if err := r.store.Upload(ctx, StorageKey, bytes.NewReader(data), ContentType); err != nil {
		return nil, fmt.Errorf("store sitemap: %w", err)
	}

	q := `
		INSERT INTO sitemaps (name, storage_key, generated_at, hash, entry_count, content_length)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			storage_key = EXCLUDED.storage_key,
			generated_at = EXCLUDED.generated_at,
			hash = EXCLUDED.hash,
			entry_count = EXCLUDED.entry_count,
			content_length = EXCLUDED.content_length
		RETURNING name, storage_key, generated_at, hash, entry_count, content_length`

	args := []any{Name, StorageKey, r.now(), Hash(data), count, int64(len(data))}
	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("record sitemap: %w", err)
	}

	r.logger.InfoContext(ctx, "sitemap regenerated", "entries", a.EntryCount, "bytes", a.ContentLength, "hash", a.Hash)
	return &a, nil
}

func (r *repo) Latest(ctx context.Context) (*Artifact, []byte, error) {
	q := `
		SELECT name, storage_key, generated_at, hash, entry_count, content_length
		FROM sitemaps WHERE name = $1`

	a, err := repository.QueryOne(ctx, r.db, q, []any{Name}, scanArtifact)
	if err != nil {
		return nil, nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	rc, err := r.store.Download(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &a, nil, ErrAssetMissing
		}
		return &a, nil, fmt.Errorf("load sitemap: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return &a, nil, fmt.Errorf("read sitemap: %w", err)
	}
	return &a, data, nil
}
