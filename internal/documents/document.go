// Package documents is the submission store. It owns the document record,
// its review outcome and moderation verdict, and the public read API.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/moderation"
)

// RedactedMarker replaces every user-supplied text field of a blocked document.
const RedactedMarker = "[REDACTED]"

// Status is the review lifecycle state of a document.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
)

// ParseStatus validates s as a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusUnderReview, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether the review outcome is final.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Decision is a single judge's vote.
type Decision string

const (
	DecisionPublishNow        Decision = "publish_now"
	DecisionPublishAfterEdits Decision = "publish_after_edits"
	DecisionReject            Decision = "reject"
)

// Judgment is one judge's recorded review.
type Judgment struct {
	JudgeID          string   `json:"judgeId"`
	Decision         Decision `json:"decision"`
	Reasoning        string   `json:"reasoning"`
	Cost             float64  `json:"cost"`
	PromptTokens     int64    `json:"promptTokens"`
	CompletionTokens int64    `json:"completionTokens"`
	CachedTokens     int64    `json:"cachedTokens"`
	TotalTokens      int64    `json:"totalTokens"`
}

// Document is a submitted paper with its review state.
type Document struct {
	ID              uuid.UUID           `json:"id"`
	PublicID        *string             `json:"publicId"`
	Title           string              `json:"title"`
	Authors         string              `json:"authors"`
	Content         string              `json:"content"`
	Tags            []string            `json:"tags"`
	SubmittedAt     time.Time           `json:"submittedAt"`
	Status          Status              `json:"status"`
	Judgments       []Judgment          `json:"judgments"`
	TotalReviewCost float64             `json:"totalReviewCost"`
	TotalTokens     int64               `json:"totalTokens"`
	Moderation      *moderation.Verdict `json:"-"`
}

// Blocked reports whether moderation blocked the document.
func (d *Document) Blocked() bool {
	return d.Moderation != nil && d.Moderation.Blocked
}

// CreateCommand carries the validated, trimmed fields of a new submission.
type CreateCommand struct {
	Title   string
	Authors string
	Content string
	Tags    []string
}

// Outcome is the terminal review result written by Finalize.
type Outcome struct {
	Status          Status
	Judgments       []Judgment
	TotalReviewCost float64
	TotalTokens     int64
}

// Summary is the slim projection used for sitemap and backfill scans.
type Summary struct {
	ID          uuid.UUID
	PublicID    *string
	SubmittedAt time.Time
	Status      Status
}

// DeadLetter is the judgment recorded when a queue item fails outright.
func DeadLetter(reason string) Judgment {
	return Judgment{
		JudgeID:   "council-queue",
		Decision:  DecisionReject,
		Reasoning: reason,
	}
}
