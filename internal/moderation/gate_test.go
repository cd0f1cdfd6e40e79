package moderation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/slopjournal/internal/moderation"
)

type mockClassifier struct {
	analyzeFn func(ctx context.Context, text string) (*moderation.Analysis, error)
	calls     int
	lastText  string
}

func (m *mockClassifier) Analyze(ctx context.Context, text string) (*moderation.Analysis, error) {
	m.calls++
	m.lastText = text
	return m.analyzeFn(ctx, text)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scores(hate, selfHarm, sexual, violence int) *moderation.Analysis {
	return &moderation.Analysis{Categories: []moderation.CategoryScore{
		{Category: moderation.CategoryHate, Severity: hate},
		{Category: moderation.CategorySelfHarm, Severity: selfHarm},
		{Category: moderation.CategorySexual, Severity: sexual},
		{Category: moderation.CategoryViolence, Severity: violence},
	}}
}

var defaultThresholds = moderation.Thresholds{Category: 4, Overall: 8}

func TestDecide(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		analysis    *moderation.Analysis
		wantBlocked bool
		wantReason  string
		wantOverall int
	}{
		{"all clear", scores(0, 0, 0, 0), false, moderation.ReasonBelowThresholds, 0},
		{"just below both", scores(2, 2, 2, 0), false, moderation.ReasonBelowThresholds, 6},
		{"category hit only", scores(4, 0, 0, 0), true, moderation.ReasonCategoryThreshold, 4},
		{"overall hit only", scores(2, 2, 2, 2), true, moderation.ReasonOverallThreshold, 8},
		{"both", scores(6, 2, 0, 0), true, moderation.ReasonBothThresholds, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := moderation.Decide(tt.analysis, defaultThresholds, now)
			if v.Blocked != tt.wantBlocked {
				t.Errorf("Blocked = %v, want %v", v.Blocked, tt.wantBlocked)
			}
			if v.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", v.Reason, tt.wantReason)
			}
			if v.OverallSeverity != tt.wantOverall {
				t.Errorf("OverallSeverity = %d, want %d", v.OverallSeverity, tt.wantOverall)
			}
			if tt.wantBlocked && (v.BlockedAt == nil || !v.BlockedAt.Equal(now)) {
				t.Errorf("BlockedAt = %v, want %v", v.BlockedAt, now)
			}
			if !tt.wantBlocked && v.BlockedAt != nil {
				t.Errorf("BlockedAt = %v, want nil", v.BlockedAt)
			}
			if len(v.Categories) != 4 {
				t.Errorf("Categories = %v, want 4 entries", v.Categories)
			}
		})
	}
}

func TestGateScreenFailsClosed(t *testing.T) {
	c := &mockClassifier{analyzeFn: func(context.Context, string) (*moderation.Analysis, error) {
		return nil, errors.New("connection refused")
	}}
	g := moderation.NewGate(c, moderation.Options{Thresholds: defaultThresholds}, discardLogger())

	v := g.Screen(context.Background(), moderation.Input{Title: "t"})

	if !v.Blocked {
		t.Fatal("verdict should be blocked")
	}
	if v.Reason != "moderation_failed:connection refused" {
		t.Errorf("Reason = %q", v.Reason)
	}
	if v.OverallSeverity != 0 || len(v.Categories) != 0 {
		t.Errorf("failed verdict should carry no scores: %+v", v)
	}
	if v.BlockedAt == nil {
		t.Error("BlockedAt should be set")
	}
}

func TestGateScreenTimeoutCause(t *testing.T) {
	c := &mockClassifier{analyzeFn: func(context.Context, string) (*moderation.Analysis, error) {
		return nil, context.DeadlineExceeded
	}}
	g := moderation.NewGate(c, moderation.Options{Thresholds: defaultThresholds}, discardLogger())

	if v := g.Screen(context.Background(), moderation.Input{}); v.Reason != "moderation_failed:timeout" {
		t.Errorf("Reason = %q, want moderation_failed:timeout", v.Reason)
	}
}

func TestGateScreenForceBlock(t *testing.T) {
	c := &mockClassifier{analyzeFn: func(context.Context, string) (*moderation.Analysis, error) {
		t.Fatal("classifier must not be called")
		return nil, nil
	}}
	g := moderation.NewGate(c, moderation.Options{Thresholds: defaultThresholds, ForceBlock: true}, discardLogger())

	v := g.Screen(context.Background(), moderation.Input{Title: "t"})
	if !v.Blocked || v.Reason != moderation.ReasonForcedBlock {
		t.Errorf("verdict = %+v, want forced block", v)
	}
	if v.OverallSeverity != 0 || len(v.Categories) != 0 {
		t.Errorf("forced verdict should carry no scores: %+v", v)
	}
}

func TestGateScreenDryRun(t *testing.T) {
	g := moderation.NewGate(moderation.DryRun{}, moderation.Options{Thresholds: defaultThresholds}, discardLogger())

	v := g.Screen(context.Background(), moderation.Input{Title: "t", Content: "c"})
	if v.Blocked {
		t.Fatalf("dry run should not block: %+v", v)
	}
	if v.Reason != moderation.ReasonBelowThresholds {
		t.Errorf("Reason = %q", v.Reason)
	}
	if len(v.Categories) != 4 {
		t.Fatalf("Categories = %v", v.Categories)
	}
	for i, c := range v.Categories {
		if c.Category != moderation.Categories[i] || c.Severity != 0 {
			t.Errorf("Categories[%d] = %+v", i, c)
		}
	}
}

func TestGateScreenText(t *testing.T) {
	c := &mockClassifier{analyzeFn: func(context.Context, string) (*moderation.Analysis, error) {
		return scores(0, 0, 0, 0), nil
	}}
	g := moderation.NewGate(c, moderation.Options{Thresholds: defaultThresholds, TruncateLength: 5}, discardLogger())

	g.Screen(context.Background(), moderation.Input{
		Title:   "On Slop",
		Authors: "GPT-4 and a raccoon",
		Tags:    []string{"Pure Slop", "Nonsense"},
		Content: "abcdefghij",
	})

	want := "On Slop\nGPT-4 and a raccoon\nPure Slop, Nonsense\nabcde..."
	if c.lastText != want {
		t.Errorf("text = %q, want %q", c.lastText, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "slop", 10, "slop"},
		{"exact", "slop", 4, "slop"},
		{"long", "sloppy", 4, "slop..."},
		{"runes", "ééééé", 2, "éé..."},
		{"no limit", strings.Repeat("x", 3000), 0, strings.Repeat("x", 3000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moderation.Truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_MOD_MODE", "live")
	t.Setenv("TEST_MOD_ENDPOINT", "https://slop.cognitiveservices.azure.com")

	tests := []struct {
		name    string
		cfg     moderation.Config
		env     *moderation.Env
		wantErr bool
	}{
		{"defaults", moderation.Config{}, nil, false},
		{"live from env", moderation.Config{}, &moderation.Env{Mode: "TEST_MOD_MODE", Endpoint: "TEST_MOD_ENDPOINT"}, false},
		{"live without endpoint", moderation.Config{Mode: moderation.ModeLive}, nil, true},
		{"unknown mode", moderation.Config{Mode: "vibes"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(tt.env)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				th := tt.cfg.Thresholds()
				if th.Category != 4 || th.Overall != 8 {
					t.Errorf("thresholds = %+v", th)
				}
			}
		})
	}
}

func TestNewDryRunGate(t *testing.T) {
	cfg := moderation.Config{ForceBlock: true}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	gate, err := moderation.New(&cfg, 2000, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	v := gate.Screen(context.Background(), moderation.Input{Title: "t", Content: "c"})
	if !v.Blocked || v.Reason != "test_mode_forced_block" {
		t.Errorf("verdict = %+v", v)
	}
}
