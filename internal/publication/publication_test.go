package publication_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/announcements"
	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/identifiers"
	"github.com/JaimeStill/slopjournal/internal/publication"
	"github.com/JaimeStill/slopjournal/internal/sitemap"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

type fakeIdentifiers struct {
	mintErr   error
	minted    int
	backfills int
	calls     *[]string
}

func (f *fakeIdentifiers) Mint(_ context.Context, id uuid.UUID) (*identifiers.Identifier, error) {
	*f.calls = append(*f.calls, "mint")
	if f.mintErr != nil {
		return nil, f.mintErr
	}
	return &identifiers.Identifier{DocumentID: id, PublicID: "slop:2025:0000000001"}, nil
}

func (f *fakeIdentifiers) Backfill(context.Context) (int, error) {
	*f.calls = append(*f.calls, "backfill")
	return f.backfills, nil
}

type fakeSitemap struct {
	err   error
	panic bool
	calls *[]string
}

func (f *fakeSitemap) Regenerate(context.Context) (*sitemap.Artifact, error) {
	*f.calls = append(*f.calls, "sitemap")
	if f.panic {
		panic("disk on fire")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &sitemap.Artifact{Name: sitemap.Name, EntryCount: 12}, nil
}

type fakeAnnouncer struct {
	enabled bool
	calls   *[]string
}

func (f *fakeAnnouncer) Enabled() bool { return f.enabled }

func (f *fakeAnnouncer) EnsureHighlight(context.Context, uuid.UUID) error {
	*f.calls = append(*f.calls, "highlight")
	return nil
}

func (f *fakeAnnouncer) AnnouncePublication(context.Context, *documents.Document) (*announcements.Announcement, error) {
	*f.calls = append(*f.calls, "announce")
	return &announcements.Announcement{}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublished(t *testing.T) {
	tests := []struct {
		name      string
		mintErr   error
		mapErr    error
		mapPanic  bool
		announce  bool
		wantCalls string
		wantID    bool
		wantErr   error
	}{
		{"all tasks", nil, nil, false, true, "mint,sitemap,highlight,announce", true, nil},
		{"announcements disabled", nil, nil, false, false, "mint,sitemap,highlight", true, nil},
		{"mint failure continues", errors.New("db down"), nil, false, true, "mint,sitemap,highlight,announce", false, nil},
		{"different identifier stops", identifiers.ErrDifferentAssigned, nil, false, true, "mint", false, identifiers.ErrDifferentAssigned},
		{"identifier taken stops", identifiers.ErrAssignedToAnother, nil, false, true, "mint", false, identifiers.ErrAssignedToAnother},
		{"sitemap failure", nil, errors.New("blob down"), false, true, "mint,sitemap,highlight,announce", true, nil},
		{"sitemap panic", nil, nil, true, false, "mint,sitemap,highlight", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			coord := publication.New(
				&fakeIdentifiers{mintErr: tt.mintErr, calls: &calls},
				&fakeSitemap{err: tt.mapErr, panic: tt.mapPanic, calls: &calls},
				&fakeAnnouncer{enabled: tt.announce, calls: &calls},
				discard(),
			)

			doc := &documents.Document{ID: uuid.New(), Status: documents.StatusAccepted}
			err := coord.Published(context.Background(), doc)
			if !errors.Is(err, tt.wantErr) || (err != nil) != (tt.wantErr != nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}

			if got := strings.Join(calls, ","); got != tt.wantCalls {
				t.Errorf("calls = %s, want %s", got, tt.wantCalls)
			}
			if (doc.PublicID != nil) != tt.wantID {
				t.Errorf("PublicID = %v, want set %v", doc.PublicID, tt.wantID)
			}
		})
	}
}

func TestBackfill(t *testing.T) {
	var calls []string
	coord := publication.New(
		&fakeIdentifiers{backfills: 3, calls: &calls},
		&fakeSitemap{calls: &calls},
		&fakeAnnouncer{calls: &calls},
		discard(),
	)

	mux := http.NewServeMux()
	routes.Register(mux, coord.Handler().Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/identifiers/backfill", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.Join(calls, ","); got != "backfill,sitemap" {
		t.Errorf("calls = %s", got)
	}
	if !strings.Contains(rec.Body.String(), `"minted":3`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestBackfillSitemapFailure(t *testing.T) {
	var calls []string
	coord := publication.New(
		&fakeIdentifiers{backfills: 2, calls: &calls},
		&fakeSitemap{err: errors.New("blob down"), calls: &calls},
		&fakeAnnouncer{calls: &calls},
		discard(),
	)

	result, err := coord.Backfill(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if result == nil || result.Minted != 2 {
		t.Errorf("result = %+v", result)
	}
}
