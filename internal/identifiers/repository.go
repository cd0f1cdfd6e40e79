package identifiers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/pkg/query"
	"github.com/JaimeStill/slopjournal/pkg/repository"
)

type repo struct {
	db         *sql.DB
	candidates Candidates
	siteURL    string
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an identifier repository implementing the System interface.
// siteURL is used to build each identifier's link.
func New(db *sql.DB, candidates Candidates, siteURL string, logger *slog.Logger) System {
	return &repo{
		db:         db,
		candidates: candidates,
		siteURL:    strings.TrimRight(siteURL, "/"),
		logger:     logger.With("system", "identifiers"),
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Mint(ctx context.Context, documentID uuid.UUID) (*Identifier, error) {
	return r.Assign(ctx, documentID, Derive(documentID, r.now()))
}

func (r *repo) Assign(ctx context.Context, documentID uuid.UUID, publicID string) (*Identifier, error) {
	publicID, err := Normalize(publicID)
	if err != nil {
		return nil, err
	}

	ident, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Identifier, error) {
		byPublicID, err := findOne(ctx, tx, "PublicID", publicID, true)
		if err != nil {
			return nil, err
		}
		byDocument, err := findOne(ctx, tx, "DocumentID", documentID, true)
		if err != nil {
			return nil, err
		}

		insert, err := Resolve(byPublicID, byDocument, documentID, publicID)
		if err != nil {
			return nil, err
		}
		if !insert {
			if byPublicID != nil {
				return byPublicID, nil
			}
			return byDocument, nil
		}

		q := `
			INSERT INTO public_identifiers (id, document_id, public_id)
			VALUES ($1, $2, $3)
			RETURNING id, document_id, public_id, created_at`

		i, err := repository.QueryOne(ctx, tx, q, []any{uuid.New(), documentID, publicID}, scanIdentifier)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrAssignedToAnother)
		}
		return &i, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "slop id assigned", "document_id", documentID, "public_id", ident.PublicID)
	return r.withLink(ident), nil
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Identifier, error) {
	i, err := findOne(ctx, r.db, "DocumentID", documentID, false)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrNotFound
	}
	return r.withLink(i), nil
}

func (r *repo) FindByPublicID(ctx context.Context, publicID string) (*Identifier, error) {
	publicID, err := Normalize(publicID)
	if err != nil {
		return nil, err
	}

	i, err := findOne(ctx, r.db, "PublicID", publicID, false)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrNotFound
	}
	return r.withLink(i), nil
}

func (r *repo) Backfill(ctx context.Context) (int, error) {
	missing, err := r.candidates.ListAcceptedMissingIdentifier(ctx)
	if err != nil {
		return 0, fmt.Errorf("list backfill candidates: %w", err)
	}

	minted := 0
	for _, doc := range missing {
		if _, err := r.Mint(ctx, doc.ID); err != nil {
			r.logger.ErrorContext(ctx, "backfill mint failed", "document_id", doc.ID, "error", err)
			continue
		}
		minted++
	}

	r.logger.InfoContext(ctx, "identifier backfill complete", "candidates", len(missing), "minted", minted)
	return minted, nil
}

func (r *repo) withLink(i *Identifier) *Identifier {
	i.Link = r.siteURL + "/papers/" + i.DocumentID.String()
	return i
}

// findOne returns the identifier whose field equals value, or nil. With lock
// the row is locked for the rest of the transaction.
func findOne(ctx context.Context, q repository.Querier, field string, value any, lock bool) (*Identifier, error) {
	stmt, args := query.NewBuilder(projection).WhereEquals(field, value).BuildSingleOrNull()
	if lock {
		stmt += " FOR UPDATE"
	}

	i, err := repository.QueryOne(ctx, q, stmt, args, scanIdentifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find identifier: %w", err)
	}
	return &i, nil
}
