package intake_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/slopjournal/internal/intake"
)

func defaultConfig(t *testing.T) *intake.Config {
	t.Helper()
	cfg := &intake.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return cfg
}

func validSubmission() intake.Submission {
	return intake.Submission{
		Title:        "On the Sloppiness of Slop",
		Authors:      "Claude 3 Haiku, A. Human",
		Content:      "We present a novel framework for maximal slop.",
		Tags:         []string{"Pure Slop"},
		ConfirmTerms: true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*intake.Submission)
		want   []string
	}{
		{
			name:   "valid",
			mutate: func(*intake.Submission) {},
		},
		{
			name:   "blank title",
			mutate: func(s *intake.Submission) { s.Title = "   " },
			want:   []string{"Title is required"},
		},
		{
			name:   "blank authors",
			mutate: func(s *intake.Submission) { s.Authors = "" },
			want:   []string{"Authors are required"},
		},
		{
			name:   "authors without model",
			mutate: func(s *intake.Submission) { s.Authors = "Jane Doe" },
			want:   []string{"Authors must mention at least one AI model such as GPT-4, Claude, or Gemini"},
		},
		{
			name:   "signifier match is case-insensitive",
			mutate: func(s *intake.Submission) { s.Authors = "llama-3 and friends" },
		},
		{
			name:   "blank content",
			mutate: func(s *intake.Submission) { s.Content = "\n\t" },
			want:   []string{"Content is required"},
		},
		{
			name:   "content too long",
			mutate: func(s *intake.Submission) { s.Content = strings.Repeat("a", 9501) },
			want:   []string{"Content must be 9,500 characters or fewer"},
		},
		{
			name:   "content limit counts characters",
			mutate: func(s *intake.Submission) { s.Content = strings.Repeat("é", 9500) },
		},
		{
			name:   "no tags",
			mutate: func(s *intake.Submission) { s.Tags = nil },
			want:   []string{"At least one tag is required"},
		},
		{
			name:   "invalid tags",
			mutate: func(s *intake.Submission) { s.Tags = []string{"Pure Slop", "Science", "Poetry"} },
			want:   []string{"Invalid tags: Science, Poetry"},
		},
		{
			name:   "shrug tag",
			mutate: func(s *intake.Submission) { s.Tags = []string{"🤷‍♂️"} },
		},
		{
			name:   "invalid email",
			mutate: func(s *intake.Submission) { s.NotificationEmail = "not-an-email" },
			want:   []string{"Notification email must be a valid email address"},
		},
		{
			name:   "valid email with whitespace",
			mutate: func(s *intake.Submission) { s.NotificationEmail = "  editor@journal.example.com " },
		},
		{
			name:   "terms not confirmed",
			mutate: func(s *intake.Submission) { s.ConfirmTerms = false },
			want:   []string{"You must confirm the terms and conditions"},
		},
		{
			name: "every rule at once",
			mutate: func(s *intake.Submission) {
				*s = intake.Submission{NotificationEmail: "x@"}
			},
			want: []string{
				"Title is required",
				"Authors are required",
				"Content is required",
				"At least one tag is required",
				"Notification email must be a valid email address",
				"You must confirm the terms and conditions",
			},
		},
	}

	cfg := defaultConfig(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)

			got := s.Validate(cfg)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Validate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateCustomLimit(t *testing.T) {
	cfg := &intake.Config{ContentLimit: 12000}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	s := validSubmission()
	s.Content = strings.Repeat("a", 12001)

	got := s.Validate(cfg)
	want := []string{"Content must be 12,000 characters or fewer"}
	if !slices.Equal(got, want) {
		t.Errorf("Validate = %q, want %q", got, want)
	}
}

func TestCommandTrims(t *testing.T) {
	s := intake.Submission{
		Title:   "  Title  ",
		Authors: " GPT-4 ",
		Content: "\nbody\n",
		Tags:    []string{"Nonsense", "Nonsense", "Pure Slop"},
	}

	cmd := s.Command()
	if cmd.Title != "Title" || cmd.Authors != "GPT-4" || cmd.Content != "body" {
		t.Errorf("command not trimmed: %+v", cmd)
	}
	if !slices.Equal(cmd.Tags, []string{"Nonsense", "Pure Slop"}) {
		t.Errorf("tags = %v, want deduplicated", cmd.Tags)
	}
}

func TestValidationError(t *testing.T) {
	err := error(&intake.ValidationError{Details: []string{"Title is required"}})

	if !errors.Is(err, intake.ErrValidation) {
		t.Error("ValidationError does not wrap ErrValidation")
	}

	var verr *intake.ValidationError
	if !errors.As(err, &verr) || len(verr.Details) != 1 {
		t.Errorf("errors.As failed: %v", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := defaultConfig(t)
		if cfg.ContentLimit != intake.DefaultContentLimit {
			t.Errorf("content limit = %d", cfg.ContentLimit)
		}
		if len(cfg.Signifiers) != 10 || len(cfg.Tags) != 5 {
			t.Errorf("signifiers = %d, tags = %d", len(cfg.Signifiers), len(cfg.Tags))
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_INTAKE_LIMIT", "500")
		t.Setenv("TEST_INTAKE_SIGNIFIERS", "Mistral, Phi")

		cfg := &intake.Config{}
		err := cfg.Finalize(&intake.Env{ContentLimit: "TEST_INTAKE_LIMIT", Signifiers: "TEST_INTAKE_SIGNIFIERS"})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.ContentLimit != 500 {
			t.Errorf("content limit = %d, want 500", cfg.ContentLimit)
		}
		if !slices.Equal(cfg.Signifiers, []string{"Mistral", "Phi"}) {
			t.Errorf("signifiers = %v", cfg.Signifiers)
		}
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		cfg := &intake.Config{ContentLimit: -1}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := defaultConfig(t)
		base.Merge(&intake.Config{ContentLimit: 100})
		if base.ContentLimit != 100 {
			t.Errorf("content limit = %d, want 100", base.ContentLimit)
		}
		if len(base.Tags) != 5 {
			t.Errorf("tags overwritten by empty overlay")
		}
	})
}
