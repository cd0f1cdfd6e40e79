package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/notify"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRender(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	tests := []struct {
		name        string
		msg         notify.Message
		wantSubject string
		wantHTML    []string
		wantText    []string
	}{
		{
			name: "accepted",
			msg: notify.Message{
				DocumentID:    id,
				Title:         "Slop & Sons",
				Status:        documents.StatusAccepted,
				ReviewSummary: "openai/gpt-5-nano: peak slop\nx-ai/grok: <b>yes</b>",
			},
			wantSubject: "The Journal of AI Slop™ — Accepted Notification",
			wantHTML: []string{
				"Slop &amp; Sons",
				"Crom has crowned your work slopworthy.",
				"Expect a glorious procession of coffee rings and citations.",
				"&lt;b&gt;yes&lt;/b&gt;",
				`href="https://journalofaislop.com/papers/11111111-2222-3333-4444-555555555555"`,
			},
			wantText: []string{
				"Slop & Sons",
				"openai/gpt-5-nano: peak slop\nx-ai/grok: <b>yes</b>",
				"View the verdict: https://journalofaislop.com/papers/11111111-2222-3333-4444-555555555555",
			},
		},
		{
			name: "rejected with default summary",
			msg: notify.Message{
				DocumentID: id,
				Title:      "<script>alert(1)</script>",
				Status:     documents.StatusRejected,
			},
			wantSubject: "The Journal of AI Slop™ — Rejected Notification",
			wantHTML: []string{
				"&lt;script&gt;",
				"Crom has judged this entry not sloppy enough.",
				"no hard feelings, the slop is still real.",
				"A council of bots provided their snap judgment.",
			},
			wantText: []string{
				"<script>alert(1)</script>",
				"Status: rejected",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := notify.Render(tt.msg, "https://journalofaislop.com/")
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if email.Subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", email.Subject, tt.wantSubject)
			}
			if strings.Contains(email.HTML, "<script>") {
				t.Error("html contains unescaped script tag")
			}
			for _, want := range tt.wantHTML {
				if !strings.Contains(email.HTML, want) {
					t.Errorf("html missing %q", want)
				}
			}
			for _, want := range tt.wantText {
				if !strings.Contains(email.Text, want) {
					t.Errorf("text missing %q\n%s", want, email.Text)
				}
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{notify.ModeDisabled, false},
		{notify.ModeLog, false},
		{notify.ModeResend, false},
		{"carrier-pigeon", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &notify.Config{Mode: tt.mode, APIKey: "re_key"}
			n, err := notify.New(cfg, "https://example.com", discardLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && n == nil {
				t.Error("nil notifier")
			}
		})
	}
}

func TestResendSend(t *testing.T) {
	var got map[string]any
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	cfg := &notify.Config{Mode: notify.ModeResend, Endpoint: srv.URL, APIKey: "re_key"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	n := notify.NewResend(cfg, "https://journalofaislop.com", discardLogger())
	err := n.Send(context.Background(), notify.Message{
		To:         "author@example.com",
		DocumentID: uuid.New(),
		Title:      "Slop",
		Status:     documents.StatusAccepted,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if auth != "Bearer re_key" {
		t.Errorf("authorization = %q", auth)
	}
	if got["from"] != "editor@mail.journalofaislop.com" {
		t.Errorf("from = %v", got["from"])
	}
	to, _ := got["to"].([]any)
	if len(to) != 1 || to[0] != "author@example.com" {
		t.Errorf("to = %v", got["to"])
	}
	for _, field := range []string{"subject", "html", "text"} {
		if s, _ := got[field].(string); s == "" {
			t.Errorf("%s is empty", field)
		}
	}
}

func TestResendSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	cfg := &notify.Config{Mode: notify.ModeResend, Endpoint: srv.URL, APIKey: "re_key"}
	cfg.Finalize(nil)

	err := notify.NewResend(cfg, "https://example.com", discardLogger()).
		Send(context.Background(), notify.Message{To: "a@b.co", Status: documents.StatusRejected})
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Errorf("err = %v, want 422 error", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &notify.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Mode != notify.ModeDisabled || cfg.Endpoint != notify.DefaultEndpoint {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("resend requires key", func(t *testing.T) {
		cfg := &notify.Config{Mode: notify.ModeResend}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_NOTIFY_MODE", "resend")
		t.Setenv("TEST_NOTIFY_KEY", "re_env")

		cfg := &notify.Config{}
		if err := cfg.Finalize(&notify.Env{Mode: "TEST_NOTIFY_MODE", APIKey: "TEST_NOTIFY_KEY"}); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Mode != notify.ModeResend || cfg.APIKey != "re_env" {
			t.Errorf("cfg = %+v", cfg)
		}
	})
}
