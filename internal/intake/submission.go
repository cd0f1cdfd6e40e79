// Package intake validates paper submissions and records them with their
// queue item. It performs no moderation or review.
package intake

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JaimeStill/slopjournal/internal/documents"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

var emailRegex = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$",
)

var printer = message.NewPrinter(language.English)

// Submission is the public submission payload.
type Submission struct {
	Title             string   `json:"title"`
	Authors           string   `json:"authors"`
	Content           string   `json:"content"`
	Tags              []string `json:"tags"`
	NotificationEmail string   `json:"notificationEmail"`
	ConfirmTerms      bool     `json:"confirmTerms"`
}

// ValidationError lists every rule a submission violated.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Details, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validate returns the messages for every violated rule, or nil.
func (s Submission) Validate(cfg *Config) []string {
	var details []string

	if strings.TrimSpace(s.Title) == "" {
		details = append(details, "Title is required")
	}

	if authors := strings.TrimSpace(s.Authors); authors == "" {
		details = append(details, "Authors are required")
	} else if !mentionsModel(authors, cfg.Signifiers) {
		details = append(details, "Authors must mention at least one AI model such as GPT-4, Claude, or Gemini")
	}

	if strings.TrimSpace(s.Content) == "" {
		details = append(details, "Content is required")
	} else if utf8.RuneCountInString(s.Content) > cfg.ContentLimit {
		details = append(details, printer.Sprintf("Content must be %d characters or fewer", cfg.ContentLimit))
	}

	if len(s.Tags) == 0 {
		details = append(details, "At least one tag is required")
	} else {
		var invalid []string
		for _, tag := range s.Tags {
			if !slices.Contains(cfg.Tags, tag) {
				invalid = append(invalid, tag)
			}
		}
		if len(invalid) > 0 {
			details = append(details, "Invalid tags: "+strings.Join(invalid, ", "))
		}
	}

	if email := strings.TrimSpace(s.NotificationEmail); email != "" && !emailRegex.MatchString(email) {
		details = append(details, "Notification email must be a valid email address")
	}

	if !s.ConfirmTerms {
		details = append(details, "You must confirm the terms and conditions")
	}

	return details
}

// Command returns the trimmed create command. Duplicate tags are collapsed.
func (s Submission) Command() documents.CreateCommand {
	tags := make([]string, 0, len(s.Tags))
	for _, tag := range s.Tags {
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}

	return documents.CreateCommand{
		Title:   strings.TrimSpace(s.Title),
		Authors: strings.TrimSpace(s.Authors),
		Content: strings.TrimSpace(s.Content),
		Tags:    tags,
	}
}

func mentionsModel(authors string, signifiers []string) bool {
	lower := strings.ToLower(authors)
	for _, s := range signifiers {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
