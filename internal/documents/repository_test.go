package documents_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/migrations"
)

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
	return db
}

func TestDecidedDocumentIsFinalLive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sys := documents.New(db, slog.New(slog.DiscardHandler))

	doc, err := documents.Insert(ctx, db, documents.CreateCommand{
		Title:   "Slop Theory",
		Authors: "Claude",
		Content: "slop",
		Tags:    []string{"Pure Slop"},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := sys.MarkUnderReview(ctx, doc.ID); err != nil {
		t.Fatalf("mark under review: %v", err)
	}
	if err := sys.MarkUnderReview(ctx, doc.ID); err != nil {
		t.Fatalf("repeat mark under review: %v", err)
	}

	accepted := documents.Outcome{
		Status:    documents.StatusAccepted,
		Judgments: []documents.Judgment{{JudgeID: "m", Decision: documents.DecisionPublishNow, Reasoning: "slop"}},
	}
	if err := sys.Finalize(ctx, doc.ID, accepted); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if err := sys.MarkUnderReview(ctx, doc.ID); !errors.Is(err, documents.ErrDecided) {
		t.Errorf("mark decided document: err = %v, want ErrDecided", err)
	}

	rejected := documents.Outcome{Status: documents.StatusRejected}
	if err := sys.Finalize(ctx, doc.ID, rejected); !errors.Is(err, documents.ErrDecided) {
		t.Errorf("re-finalize: err = %v, want ErrDecided", err)
	}

	got, err := sys.Find(ctx, doc.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != documents.StatusAccepted {
		t.Errorf("status = %s, want accepted", got.Status)
	}
}
