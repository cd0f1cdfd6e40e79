package review

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/slopjournal/internal/documents"
)

const promptTemplate = `You are a peer reviewer for The Journal of AI Slop™, a satirical academic journal.

The paper you're reviewing is tagged as: %s

Paper Title: %s
Authors: %s

Content (truncated to %d chars):
%s

Your task: Decide if this paper should be published in our slop journal.

Respond with ONE of these decisions:
- "publish_now" - Peak slop, ready for the world
- "publish_after_edits" - Good slop but needs polish (treated as reject for this stage)
- "reject" - Not slop enough, too slop, or just wrong

Respond in valid JSON only:
{
  "decision": "publish_now" | "publish_after_edits" | "reject",
  "reasoning": "One sentence explaining your decision"
}`

// BuildPrompt renders the reviewer prompt for doc with its content cut to
// truncate characters.
func BuildPrompt(doc *documents.Document, truncate int) string {
	tags := "(no tag)"
	if len(doc.Tags) > 0 {
		tags = strings.Join(doc.Tags, ", ")
	}

	content := doc.Content
	if r := []rune(content); len(r) > truncate {
		content = string(r[:truncate]) + "..."
	}

	return fmt.Sprintf(promptTemplate, tags, doc.Title, doc.Authors, truncate, content)
}
