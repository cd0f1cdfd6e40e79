package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/pkg/pagination"
)

// System defines the public contract for review queue operations.
type System interface {
	Handler() *Handler

	Enqueue(ctx context.Context, documentID uuid.UUID, email string) (uuid.UUID, error)
	// AcquireNext claims the oldest pending item. It returns nil, nil when
	// the queue is empty.
	AcquireNext(ctx context.Context) (*Item, error)
	Complete(ctx context.Context, id uuid.UUID) error
	// RejectAndDrop rejects the document with a dead-letter judgment and
	// deletes the item in one transaction.
	RejectAndDrop(ctx context.Context, id, documentID uuid.UUID, reason string) error
	// RequeueStale releases processing claims older than olderThan.
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Item], error)
	Stats(ctx context.Context) (*Stats, error)
}
