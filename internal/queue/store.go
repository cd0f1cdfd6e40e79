package queue

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/pkg/repository"
)

const enqueueSQL = `
	INSERT INTO queue_items AS q (id, document_id, status, notification_email)
	VALUES ($1, $2, 'pending', NULLIF($3, ''))
	ON CONFLICT (document_id) DO UPDATE
	SET notification_email = CASE
		WHEN EXCLUDED.notification_email IS NOT NULL
			AND EXCLUDED.notification_email IS DISTINCT FROM q.notification_email
		THEN EXCLUDED.notification_email
		ELSE q.notification_email
	END
	RETURNING q.id`

// Enqueue adds a pending item for documentID using q, which may be a
// transaction. An existing item keeps its id and position; its email is
// replaced only by a non-empty, different address.
func Enqueue(ctx context.Context, q repository.Querier, documentID uuid.UUID, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRowContext(ctx, enqueueSQL, uuid.New(), documentID, strings.TrimSpace(email)).Scan(&id)
	if err != nil {
		return uuid.Nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return id, nil
}
