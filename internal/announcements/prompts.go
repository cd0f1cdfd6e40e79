package announcements

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/review"
)

// Persona is the voice every announcement is drafted in.
const Persona = "SLOPBOT, the Chief Confusion Officer and Deputy Editor of The Journal of AI Slop™"

// MaxPostLength is the character limit of a single post.
const MaxPostLength = 280

// Review tones.
const (
	ToneNoVotes  = "a zen mix of confusion and pride"
	ToneApproved = "a gleeful stamp of approval"
	ToneEdits    = "a wry nod with a new stack of edit notes"
	ToneShrug    = "a bewildered but resolute shrug"
)

// Tone summarizes how the council voted.
func Tone(judgments []documents.Judgment, quorumRatio float64) string {
	if len(judgments) == 0 {
		return ToneNoVotes
	}

	var now, edits int
	for _, j := range judgments {
		switch j.Decision {
		case documents.DecisionPublishNow:
			now++
		case documents.DecisionPublishAfterEdits:
			edits++
		}
	}

	switch {
	case now >= review.Quorum(len(judgments), quorumRatio):
		return ToneApproved
	case edits > 0:
		return ToneEdits
	default:
		return ToneShrug
	}
}

// PublicationPrompt asks for a post about a newly accepted paper.
func PublicationPrompt(doc *documents.Document, tone string) string {
	tags := "no-tags"
	if len(doc.Tags) > 0 {
		tags = strings.Join(doc.Tags, ", ")
	}
	return fmt.Sprintf(
		"You are %s. Compose a single tweet about the newly accepted paper titled “%s” by %s. "+
			"Mention that the paper is tagged %s and that the peer-review council arrived at %s. "+
			"Keep the voice playful, slightly confused, and proudly editorial. "+
			"Do not include a URL; it will be appended later. "+
			"Keep the tweet under 220 characters so the link can be comfortably added.",
		Persona, doc.Title, doc.Authors, tags, tone,
	)
}

// HighlightPrompt asks for a post featuring an archived paper.
func HighlightPrompt(doc *documents.Document) string {
	tags := "no tags"
	if len(doc.Tags) > 0 {
		tags = strings.Join(doc.Tags, ", ")
	}
	return fmt.Sprintf(
		"You are %s. Draft a short, editorialized tweet highlighting the archival paper titled “%s” by %s, "+
			"submitted on %s with tags %s. "+
			"Frame it as a daily pick from the vault, balancing admiration with bemusement. "+
			"Keep the tweet under 220 characters. Leave the URL out; it will be appended later.",
		Persona, doc.Title, doc.Authors, doc.SubmittedAt.UTC().Format("Mon Jan 02 2006"), tags,
	)
}

// AppendLink trims body, shortens it with an ellipsis when needed, and
// appends link so the result fits within limit characters.
func AppendLink(body, link string, limit int) (string, error) {
	tail := " " + link
	room := limit - utf8.RuneCountInString(tail)
	if room < 0 {
		return "", ErrLinkTooLong
	}

	base := strings.TrimSpace(body)
	if runes := []rune(base); len(runes) > room {
		base = string(runes[:max(0, room-1)]) + "…"
	}
	return base + tail, nil
}
