package announcements

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/pkg/openrouter"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
	"github.com/JaimeStill/slopjournal/pkg/query"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

// HighlightCandidates bounds the reservation scan.
const HighlightCandidates = 50

const candidatesSQL = `
	SELECT h.id, h.document_id, h.highlighted_at, h.created_at
	FROM highlights h
	JOIN documents d ON d.id = h.document_id
	WHERE h.highlighted_at IS NULL
		AND d.status = 'accepted'
		AND NOT COALESCE((d.moderation->>'blocked')::boolean, false)
	ORDER BY h.created_at, h.id
	LIMIT $1
	FOR UPDATE OF h SKIP LOCKED`

// Options carries the collaborators of the announcement system.
type Options struct {
	Drafter     Drafter
	Poster      Poster
	Papers      Papers
	SiteURL     string
	QuorumRatio float64
	Pagination  pagination.Config
}

type repo struct {
	db     *sql.DB
	cfg    *Config
	opts   Options
	logger *slog.Logger
	pick   func(n int) int
}

// New creates an announcement repository implementing the System interface.
// A nil Poster leaves announcements disabled.
func New(db *sql.DB, cfg *Config, opts Options, logger *slog.Logger) System {
	return &repo{
		db:     db,
		cfg:    cfg,
		opts:   opts,
		logger: logger.With("system", "announcements"),
		pick:   mrand.IntN,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.opts.Pagination)
}

func (r *repo) Enabled() bool {
	return r.opts.Poster != nil && r.cfg.Enabled()
}

func (r *repo) AnnouncePublication(ctx context.Context, doc *documents.Document) (*Announcement, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}
	if doc.Status != documents.StatusAccepted || doc.Blocked() {
		return nil, ErrNotAccepted
	}

	runID := newRunID()
	rec := Announcement{Kind: KindPublication, DocumentID: &doc.ID, RunID: &runID}

	tone := Tone(doc.Judgments, r.opts.QuorumRatio)
	body, err := r.compose(ctx, PublicationPrompt(doc, tone), doc.ID)
	if err == nil {
		rec.Body = body
		err = r.post(ctx, &rec)
	}

	return r.finish(ctx, rec, err)
}

func (r *repo) AnnounceDailyHighlight(ctx context.Context) (*Announcement, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}

	h, err := r.ReserveHighlight(ctx)
	if err != nil {
		return nil, err
	}
	if h == nil {
		r.logger.InfoContext(ctx, "no highlight candidate, rotation reset")
		return nil, nil
	}

	doc, err := r.opts.Papers.Find(ctx, h.DocumentID)
	if err != nil || doc.Blocked() {
		if markErr := r.MarkHighlightFailed(ctx, h.ID); markErr != nil {
			r.logger.ErrorContext(ctx, "release highlight failed", "id", h.ID, "error", markErr)
		}
		if err != nil && !errors.Is(err, documents.ErrNotFound) {
			return nil, fmt.Errorf("load highlighted paper: %w", err)
		}
		return nil, nil
	}

	runID := newRunID()
	rec := Announcement{Kind: KindDailyHighlight, DocumentID: &doc.ID, HighlightID: &h.ID, RunID: &runID}

	body, err := r.compose(ctx, HighlightPrompt(doc), doc.ID)
	if err == nil {
		rec.Body = body
		err = r.post(ctx, &rec)
	}
	if err != nil {
		if markErr := r.MarkHighlightFailed(ctx, h.ID); markErr != nil {
			r.logger.ErrorContext(ctx, "release highlight failed", "id", h.ID, "error", markErr)
		}
	}

	return r.finish(ctx, rec, err)
}

func (r *repo) EnsureHighlight(ctx context.Context, documentID uuid.UUID) error {
	q := `
		INSERT INTO highlights (id, document_id)
		VALUES ($1, $2)
		ON CONFLICT (document_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, q, uuid.New(), documentID); err != nil {
		return fmt.Errorf("ensure highlight: %w", err)
	}
	return nil
}

func (r *repo) ReserveHighlight(ctx context.Context) (*Highlight, error) {
	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Highlight, error) {
		candidates, err := repository.QueryMany(ctx, tx, candidatesSQL, []any{HighlightCandidates}, scanHighlight)
		if err != nil {
			return nil, fmt.Errorf("query highlight candidates: %w", err)
		}

		if len(candidates) == 0 {
			if _, err := tx.ExecContext(ctx, "UPDATE highlights SET highlighted_at = NULL"); err != nil {
				return nil, fmt.Errorf("reset highlights: %w", err)
			}
			return nil, nil
		}

		chosen := candidates[r.pick(len(candidates))]
		now := time.Now().UTC()
		if err := repository.ExecExpectOne(ctx, tx, "UPDATE highlights SET highlighted_at = $2 WHERE id = $1", chosen.ID, now); err != nil {
			return nil, fmt.Errorf("reserve highlight: %w", err)
		}
		chosen.HighlightedAt = &now
		return &chosen, nil
	})
}

func (r *repo) MarkHighlightFailed(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, "UPDATE highlights SET highlighted_at = NULL WHERE id = $1", id); err != nil {
		return fmt.Errorf("release highlight: %w", err)
	}
	return nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Announcement], error) {
	page.Normalize(r.opts.Pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Body", "Error")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count announcements: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnnouncement)
	if err != nil {
		return nil, fmt.Errorf("query announcements: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// compose drafts the body with the model and appends the paper link.
func (r *repo) compose(ctx context.Context, prompt string, id uuid.UUID) (string, error) {
	outcome := r.opts.Drafter.Complete(ctx, openrouter.Request{
		Model:       r.cfg.Model,
		Prompt:      prompt,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
	})

	var draft string
	switch o := outcome.(type) {
	case openrouter.Success:
		draft = strings.TrimSpace(o.Content)
	case openrouter.HTTPError:
		return "", fmt.Errorf("openrouter returned %d", o.Status)
	case openrouter.TransportError:
		return "", fmt.Errorf("openrouter request: %w", o.Cause)
	}
	if draft == "" {
		return "", ErrEmptyDraft
	}

	link := strings.TrimRight(r.opts.SiteURL, "/") + "/papers/" + id.String()
	return AppendLink(draft, link, MaxPostLength)
}

func (r *repo) post(ctx context.Context, rec *Announcement) error {
	id, err := r.opts.Poster.Post(ctx, rec.Body)
	if err != nil {
		return err
	}
	if id != "" {
		rec.PostID = &id
	}
	return nil
}

// finish records the attempt and returns the recorded row alongside the
// original failure, if any.
func (r *repo) finish(ctx context.Context, rec Announcement, failure error) (*Announcement, error) {
	rec.Persona = Persona
	rec.Status = StatusSuccess
	if failure != nil {
		msg := failure.Error()
		rec.Status = StatusFailed
		rec.Error = &msg
	}

	q := `
		INSERT INTO announcements (id, kind, document_id, highlight_id, post_id, body, persona, status, error, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, kind, document_id, highlight_id, post_id, body, persona, status, error, run_id, posted_at`

	args := []any{
		uuid.New(), rec.Kind, rec.DocumentID, rec.HighlightID, rec.PostID,
		rec.Body, rec.Persona, rec.Status, rec.Error, rec.RunID,
	}

	saved, err := repository.QueryOne(ctx, r.db, q, args, scanAnnouncement)
	if err != nil {
		r.logger.ErrorContext(ctx, "record announcement failed", "kind", rec.Kind, "error", err)
		saved = rec
	}

	if failure != nil {
		r.logger.WarnContext(ctx, "announcement failed", "kind", rec.Kind, "run_id", *rec.RunID, "error", failure)
		return &saved, failure
	}

	r.logger.InfoContext(ctx, "announcement posted", "kind", rec.Kind, "run_id", *rec.RunID, "post_id", rec.PostID)
	return &saved, nil
}

func newRunID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
