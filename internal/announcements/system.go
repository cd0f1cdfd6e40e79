package announcements

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/pkg/openrouter"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
)

// System defines the public contract for announcement operations.
// Failures are recorded and returned; they never touch document state.
type System interface {
	Handler() *Handler

	// Enabled reports whether a poster is configured.
	Enabled() bool

	// AnnouncePublication drafts and posts a message for an accepted paper.
	AnnouncePublication(ctx context.Context, doc *documents.Document) (*Announcement, error)
	// AnnounceDailyHighlight features one archived paper. It returns nil
	// when no candidate is eligible.
	AnnounceDailyHighlight(ctx context.Context) (*Announcement, error)

	// EnsureHighlight adds a paper to the highlight rotation.
	EnsureHighlight(ctx context.Context, documentID uuid.UUID) error
	// ReserveHighlight picks and stamps a random eligible candidate, or
	// resets the rotation and returns nil when none is eligible.
	ReserveHighlight(ctx context.Context) (*Highlight, error)
	// MarkHighlightFailed returns a reserved candidate to the rotation.
	MarkHighlightFailed(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Announcement], error)
}

// Drafter produces the announcement text.
type Drafter interface {
	Complete(ctx context.Context, req openrouter.Request) openrouter.Outcome
}

// Papers loads the paper being announced.
type Papers interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
}
