package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/moderation"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
)

// System defines the public contract for document domain operations.
// Every update refuses rows whose stored moderation verdict is blocked.
type System interface {
	Handler() *Handler

	// Find returns any document, including redacted ones.
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	// FindPublic returns a document unless it is missing or blocked.
	FindPublic(ctx context.Context, id uuid.UUID) (*Document, error)
	// ListPublic pages non-blocked documents newest first.
	ListPublic(
		ctx context.Context,
		page pagination.CursorRequest,
		filters Filters,
	) (*pagination.CursorResult[Document], error)

	MarkUnderReview(ctx context.Context, id uuid.UUID) error
	Finalize(ctx context.Context, id uuid.UUID, outcome Outcome) error
	Redact(ctx context.Context, id uuid.UUID, verdict moderation.Verdict) error

	// ListAccepted returns accepted, non-blocked documents newest first.
	ListAccepted(ctx context.Context) ([]Summary, error)
	// ListAcceptedMissingIdentifier returns accepted, non-blocked documents
	// that have no public identifier.
	ListAcceptedMissingIdentifier(ctx context.Context) ([]Summary, error)
}
