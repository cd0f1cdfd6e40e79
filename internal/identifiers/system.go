package identifiers

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/documents"
)

// System defines the public contract for identifier operations.
type System interface {
	Handler() *Handler

	// Mint derives the document's identifier for the current year and
	// assigns it. Re-minting the same value is a no-op; a document already
	// holding a different value yields ErrDifferentAssigned.
	Mint(ctx context.Context, documentID uuid.UUID) (*Identifier, error)
	// Assign binds publicID to documentID under the assignment rules.
	Assign(ctx context.Context, documentID uuid.UUID, publicID string) (*Identifier, error)

	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Identifier, error)
	FindByPublicID(ctx context.Context, publicID string) (*Identifier, error)

	// Backfill mints identifiers for accepted, non-blocked documents that
	// lack one. It returns the number minted.
	Backfill(ctx context.Context) (int, error)
}

// Candidates lists documents eligible for backfill.
type Candidates interface {
	ListAcceptedMissingIdentifier(ctx context.Context) ([]documents.Summary, error)
}
