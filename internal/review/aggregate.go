package review

import (
	"math"

	"github.com/JaimeStill/slopjournal/internal/documents"
)

// DefaultQuorumRatio is the share of the panel that must vote publish_now.
const DefaultQuorumRatio = 0.6

// Quorum returns the publish_now votes needed from a panel of n.
func Quorum(n int, ratio float64) int {
	return int(math.Ceil(float64(n) * ratio))
}

// Aggregate decides the final status. publish_after_edits does not count
// toward acceptance.
func Aggregate(judgments []documents.Judgment, rosterSize int, ratio float64) documents.Status {
	votes := 0
	for _, j := range judgments {
		if j.Decision == documents.DecisionPublishNow {
			votes++
		}
	}

	if votes >= Quorum(rosterSize, ratio) {
		return documents.StatusAccepted
	}
	return documents.StatusRejected
}

// Totals sums cost and tokens across judgments.
func Totals(judgments []documents.Judgment) (cost float64, tokens int64) {
	for _, j := range judgments {
		cost += j.Cost
		tokens += j.TotalTokens
	}
	return cost, tokens
}
