package review

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/slopjournal/internal/documents"
)

// Summary quotes the reasoning of the first n judges, one per line.
func Summary(judgments []documents.Judgment, n int) string {
	lines := make([]string, 0, n)
	for _, j := range judgments {
		if len(lines) == n {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %s", j.JudgeID, j.Reasoning))
	}
	return strings.Join(lines, "\n")
}
