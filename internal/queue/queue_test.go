package queue_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/queue"
	"github.com/JaimeStill/slopjournal/migrations"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", queue.ErrNotFound, http.StatusNotFound},
		{"duplicate", queue.ErrDuplicate, http.StatusConflict},
		{"invalid after", queue.ErrInvalidAfter, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("complete: %w", queue.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := queue.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestItemEmail(t *testing.T) {
	addr := "crom@example.com"
	if got := (&queue.Item{NotificationEmail: &addr}).Email(); got != addr {
		t.Errorf("Email = %q, want %q", got, addr)
	}
	if got := (&queue.Item{}).Email(); got != "" {
		t.Errorf("Email = %q, want empty", got)
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("SLOP_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("SLOP_TEST_DATABASE_DSN not set")
	}

	if err := migrations.Up(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("DELETE FROM queue_items"); err != nil {
		t.Fatalf("reset queue: %v", err)
	}
	return db
}

func insertDocument(t *testing.T, db *sql.DB, title string) *documents.Document {
	t.Helper()
	doc, err := documents.Insert(context.Background(), db, documents.CreateCommand{
		Title:   title,
		Authors: "Claude",
		Content: "slop",
		Tags:    []string{"Pure Slop"},
	})
	if err != nil {
		t.Fatalf("insert document: %v", err)
	}
	return doc
}

func TestQueueLive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sys := queue.New(db, discardLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	t.Run("enqueue is idempotent per document", func(t *testing.T) {
		doc := insertDocument(t, db, "Idempotent Slop")

		first, err := sys.Enqueue(ctx, doc.ID, "")
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		second, err := sys.Enqueue(ctx, doc.ID, "  editor@example.com ")
		if err != nil {
			t.Fatalf("re-enqueue: %v", err)
		}
		if first != second {
			t.Errorf("re-enqueue id = %s, want %s", second, first)
		}

		if _, err := sys.Enqueue(ctx, doc.ID, ""); err != nil {
			t.Fatalf("re-enqueue without email: %v", err)
		}

		var email sql.NullString
		if err := db.QueryRow("SELECT notification_email FROM queue_items WHERE id = $1", first).Scan(&email); err != nil {
			t.Fatalf("read email: %v", err)
		}
		if email.String != "editor@example.com" {
			t.Errorf("email = %q, want editor@example.com", email.String)
		}

		if err := sys.Complete(ctx, first); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if err := sys.Complete(ctx, first); !errors.Is(err, queue.ErrNotFound) {
			t.Errorf("second complete err = %v, want ErrNotFound", err)
		}
	})

	t.Run("concurrent claims are exclusive", func(t *testing.T) {
		doc := insertDocument(t, db, "Contested Slop")
		if _, err := sys.Enqueue(ctx, doc.ID, ""); err != nil {
			t.Fatalf("enqueue: %v", err)
		}

		const workers = 4
		var (
			mu      sync.Mutex
			claimed []*queue.Item
			wg      sync.WaitGroup
		)
		for range workers {
			wg.Go(func() {
				item, err := sys.AcquireNext(ctx)
				if err != nil {
					t.Errorf("acquire: %v", err)
					return
				}
				if item != nil {
					mu.Lock()
					claimed = append(claimed, item)
					mu.Unlock()
				}
			})
		}
		wg.Wait()

		if len(claimed) != 1 {
			t.Fatalf("claimed %d items, want 1", len(claimed))
		}
		if claimed[0].Status != queue.StatusProcessing || claimed[0].ClaimedAt == nil {
			t.Errorf("claimed item = %+v, want processing with claimed_at", claimed[0])
		}

		next, err := sys.AcquireNext(ctx)
		if err != nil || next != nil {
			t.Errorf("AcquireNext on drained queue = %v, %v; want nil, nil", next, err)
		}

		if err := sys.RejectAndDrop(ctx, claimed[0].ID, doc.ID, "boom"); err != nil {
			t.Fatalf("reject and drop: %v", err)
		}

		docs := documents.New(db, discardLogger())
		got, err := docs.Find(ctx, doc.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.Status != documents.StatusRejected {
			t.Errorf("status = %s, want rejected", got.Status)
		}
		if len(got.Judgments) != 1 || got.Judgments[0].JudgeID != "council-queue" || got.Judgments[0].Reasoning != "boom" {
			t.Errorf("judgments = %+v, want single dead-letter", got.Judgments)
		}
	})

	t.Run("stale claims are released", func(t *testing.T) {
		doc := insertDocument(t, db, "Stale Slop")
		if _, err := sys.Enqueue(ctx, doc.ID, ""); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		item, err := sys.AcquireNext(ctx)
		if err != nil || item == nil {
			t.Fatalf("acquire: %v, %v", item, err)
		}

		docs := documents.New(db, discardLogger())
		if err := docs.MarkUnderReview(ctx, doc.ID); err != nil {
			t.Fatalf("mark under review: %v", err)
		}

		if _, err := db.Exec("UPDATE queue_items SET claimed_at = NOW() - INTERVAL '2 hours' WHERE id = $1", item.ID); err != nil {
			t.Fatalf("age claim: %v", err)
		}

		n, err := sys.RequeueStale(ctx, time.Hour)
		if err != nil {
			t.Fatalf("requeue: %v", err)
		}
		if n != 1 {
			t.Errorf("released = %d, want 1", n)
		}

		got, err := docs.Find(ctx, doc.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.Status != documents.StatusPending {
			t.Errorf("status = %s, want pending", got.Status)
		}

		stats, err := sys.Stats(ctx)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if stats.Pending != 1 || stats.Processing != 0 {
			t.Errorf("stats = %+v, want 1 pending", stats)
		}

		again, err := sys.AcquireNext(ctx)
		if err != nil || again == nil {
			t.Fatalf("reacquire: %v, %v", again, err)
		}
		if again.LastError == nil || *again.LastError != queue.StaleClaimError {
			t.Errorf("last_error = %v, want %q", again.LastError, queue.StaleClaimError)
		}
	})
}
