package review_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/review"
)

func TestBuildPrompt(t *testing.T) {
	doc := &documents.Document{
		Title:   "Quantum Slop",
		Authors: "GPT-4",
		Tags:    []string{"Nonsense", "Pure Slop"},
		Content: strings.Repeat("ab", 10),
	}

	p := review.BuildPrompt(doc, 5)

	wants := []string{
		"You are a peer reviewer for The Journal of AI Slop™, a satirical academic journal.",
		"The paper you're reviewing is tagged as: Nonsense, Pure Slop",
		"Paper Title: Quantum Slop\nAuthors: GPT-4",
		"Content (truncated to 5 chars):\nababa...\n",
		`- "publish_after_edits" - Good slop but needs polish (treated as reject for this stage)`,
		`"reasoning": "One sentence explaining your decision"` + "\n}",
	}
	for _, want := range wants {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(p, "}") {
		t.Error("prompt does not end with the JSON instruction")
	}
}

func TestBuildPromptNoTagsShortContent(t *testing.T) {
	doc := &documents.Document{Title: "t", Authors: "a", Content: "short"}

	p := review.BuildPrompt(doc, 2000)

	if !strings.Contains(p, "tagged as: (no tag)") {
		t.Error("missing (no tag) placeholder")
	}
	if !strings.Contains(p, "chars):\nshort\n") {
		t.Error("short content should not be truncated")
	}
}
