// Package moderation screens submissions for unsafe content before review.
// Screening fails closed: a classifier error produces a blocked verdict.
package moderation

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// Reason codes recorded on a Verdict.
const (
	ReasonCategoryThreshold = "category_threshold"
	ReasonOverallThreshold  = "overall_threshold"
	ReasonBothThresholds    = "category_and_overall_threshold"
	ReasonBelowThresholds   = "below_thresholds"
	ReasonForcedBlock       = "test_mode_forced_block"
	ReasonFailedPrefix      = "moderation_failed:"
)

// Category names as reported in verdicts.
const (
	CategoryHate     = "hate"
	CategorySelfHarm = "self-harm"
	CategorySexual   = "sexual"
	CategoryViolence = "violence"
)

// Categories lists the screened categories in reporting order.
var Categories = []string{CategoryHate, CategorySelfHarm, CategorySexual, CategoryViolence}

// CategoryScore is the severity assigned to one category.
type CategoryScore struct {
	Category string `json:"category"`
	Severity int    `json:"severity"`
}

// Verdict is the persisted outcome of screening a document.
type Verdict struct {
	Blocked         bool            `json:"blocked"`
	OverallSeverity int             `json:"overallSeverity"`
	Categories      []CategoryScore `json:"categories"`
	Reason          string          `json:"reason"`
	BlockedAt       *time.Time      `json:"blockedAt,omitempty"`
	RequestID       string          `json:"requestId,omitempty"`
}

// Analysis is the raw classifier result.
type Analysis struct {
	Categories []CategoryScore
	RequestID  string
}

// Classifier scores text across the screened categories.
type Classifier interface {
	Analyze(ctx context.Context, text string) (*Analysis, error)
}

// Input is the submission content that is screened.
type Input struct {
	Title   string
	Authors string
	Tags    []string
	Content string
}

// Thresholds configure when a verdict blocks.
type Thresholds struct {
	Category int
	Overall  int
}

// Text assembles the screened text: title, authors, tags, and the content
// truncated to limit characters followed by "...".
func Text(in Input, limit int) string {
	return strings.Join([]string{
		in.Title,
		in.Authors,
		strings.Join(in.Tags, ", "),
		Truncate(in.Content, limit),
	}, "\n")
}

// Truncate cuts s to limit characters and appends "..." when it was longer.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// Decide applies thresholds to an analysis.
func Decide(a *Analysis, t Thresholds, now time.Time) Verdict {
	var overall int
	var categoryHit bool
	scores := make([]CategoryScore, 0, len(a.Categories))

	for _, c := range a.Categories {
		scores = append(scores, c)
		overall += c.Severity
		if c.Severity >= t.Category {
			categoryHit = true
		}
	}
	overallHit := overall >= t.Overall

	v := Verdict{
		OverallSeverity: overall,
		Categories:      scores,
		RequestID:       a.RequestID,
	}

	switch {
	case categoryHit && overallHit:
		v.Reason = ReasonBothThresholds
	case categoryHit:
		v.Reason = ReasonCategoryThreshold
	case overallHit:
		v.Reason = ReasonOverallThreshold
	default:
		v.Reason = ReasonBelowThresholds
		return v
	}

	v.Blocked = true
	v.BlockedAt = &now
	return v
}

// Failed is the fail-closed verdict for a screening error.
func Failed(cause string, now time.Time) Verdict {
	return Verdict{
		Blocked:    true,
		Categories: []CategoryScore{},
		Reason:     ReasonFailedPrefix + cause,
		BlockedAt:  &now,
	}
}

// ForcedBlock is the dry-run verdict used to exercise the blocked path.
func ForcedBlock(now time.Time) Verdict {
	return Verdict{
		Blocked:    true,
		Categories: []CategoryScore{},
		Reason:     ReasonForcedBlock,
		BlockedAt:  &now,
	}
}
