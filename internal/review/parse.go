package review

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/pkg/formatting"
	"github.com/JaimeStill/slopjournal/pkg/openrouter"
)

// Reasoning strings recorded when a judge's answer is unusable. They are
// published with the paper.
const (
	ReasonUnexplained = "LLM would not explain itself."
	ReasonUnparsable  = "Review could not be parsed into JSON."
	ReasonUnexpected  = "Review failed due to an unexpected error."
)

// Review is a parsed judge answer.
type Review struct {
	Decision  documents.Decision
	Reasoning string
}

// ParseReview reads a decision and reasoning from a model reply. It never
// fails: unusable replies become a reject with a fixed reasoning string.
func ParseReview(text string) Review {
	parsed, err := formatting.Parse[any](text)
	if err != nil || parsed == nil {
		return Review{Decision: documents.DecisionReject, Reasoning: ReasonUnparsable}
	}

	// Valid JSON that is not an object carries neither field.
	payload, ok := parsed.(map[string]any)
	if !ok {
		return Review{Decision: documents.DecisionReject, Reasoning: ReasonUnexplained}
	}

	r := Review{
		Decision:  normalizeDecision(payload["decision"]),
		Reasoning: ReasonUnexplained,
	}
	if s, ok := payload["reasoning"].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			r.Reasoning = s
		}
	}
	return r
}

func normalizeDecision(v any) documents.Decision {
	s, ok := v.(string)
	if !ok {
		return documents.DecisionReject
	}

	switch d := documents.Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case documents.DecisionPublishNow, documents.DecisionPublishAfterEdits:
		return d
	}
	return documents.DecisionReject
}

// NewJudgment converts one judge outcome into a recorded judgment.
func NewJudgment(model string, outcome openrouter.Outcome) documents.Judgment {
	usage := openrouter.UsageOf(outcome)
	j := documents.Judgment{
		JudgeID:          model,
		Decision:         documents.DecisionReject,
		Cost:             usage.Cost,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		CachedTokens:     usage.CachedTokens,
		TotalTokens:      usage.TotalTokens,
	}

	switch o := outcome.(type) {
	case openrouter.Success:
		r := ParseReview(o.Content)
		j.Decision = r.Decision
		j.Reasoning = r.Reasoning
	case openrouter.HTTPError:
		j.Reasoning = fmt.Sprintf("API returned %d.", o.Status)
	default:
		j.Reasoning = ReasonUnexpected
	}
	return j
}
