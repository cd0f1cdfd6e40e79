package review_test

import (
	"testing"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/review"
)

func votes(decisions ...documents.Decision) []documents.Judgment {
	js := make([]documents.Judgment, len(decisions))
	for i, d := range decisions {
		js[i] = documents.Judgment{Decision: d, Cost: 0.01, TotalTokens: 10}
	}
	return js
}

func TestQuorum(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 1},
		{3, 2},
		{4, 3},
		{5, 3},
		{10, 6},
	}

	for _, tt := range tests {
		if got := review.Quorum(tt.n, review.DefaultQuorumRatio); got != tt.want {
			t.Errorf("Quorum(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestAggregate(t *testing.T) {
	const (
		now   = documents.DecisionPublishNow
		edits = documents.DecisionPublishAfterEdits
		no    = documents.DecisionReject
	)

	tests := []struct {
		name      string
		judgments []documents.Judgment
		want      documents.Status
	}{
		{"three of five publish", votes(now, now, now, no, no), documents.StatusAccepted},
		{"unanimous", votes(now, now, now, now, now), documents.StatusAccepted},
		{"two of five publish", votes(now, now, no, no, no), documents.StatusRejected},
		{"edits do not count", votes(now, now, edits, edits, edits), documents.StatusRejected},
		{"all reject", votes(no, no, no, no, no), documents.StatusRejected},
		{"missing judgments count against", votes(now, now), documents.StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := review.Aggregate(tt.judgments, 5, review.DefaultQuorumRatio); got != tt.want {
				t.Errorf("Aggregate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	cost, tokens := review.Totals(votes(documents.DecisionReject, documents.DecisionPublishNow, documents.DecisionReject))
	if tokens != 30 {
		t.Errorf("tokens = %d, want 30", tokens)
	}
	if cost < 0.0299 || cost > 0.0301 {
		t.Errorf("cost = %v, want 0.03", cost)
	}
}

func TestSummary(t *testing.T) {
	js := []documents.Judgment{
		{JudgeID: "a", Reasoning: "one"},
		{JudgeID: "b", Reasoning: "two"},
		{JudgeID: "c", Reasoning: "three"},
		{JudgeID: "d", Reasoning: "four"},
	}

	want := "a: one\nb: two\nc: three"
	if got := review.Summary(js, 3); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
	if got := review.Summary(js[:1], 3); got != "a: one" {
		t.Errorf("Summary = %q", got)
	}
}
