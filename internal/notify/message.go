// Package notify emails submitters when their paper reaches a terminal state.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/documents"
)

// Message is a paper status notification.
type Message struct {
	To            string
	DocumentID    uuid.UUID
	Title         string
	Status        documents.Status
	ReviewSummary string
}

// Notifier delivers status notifications.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Email is a rendered notification.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
  <body style="margin:0;padding:0;background:#f5ecd9;font-family:'Courier Prime',serif;color:#231815;">
    <div style="max-width:640px;margin:24px auto;background:#ffffff;border-radius:20px;border:1px solid #c49a6c;padding:32px;">
      <p class="masthead" style="margin:0 0 8px;font-size:0.8rem;letter-spacing:0.3em;text-transform:uppercase;color:#6b4a2f;">The Journal of AI Slop™</p>
      <h1 style="margin:0;font-size:1.9rem;line-height:1.2;">{{.Title}}</h1>
      <p style="margin:12px 0 24px;font-size:1rem;">{{.Hero}}</p>
      <div style="border:1px dashed #c49a6c;border-radius:16px;padding:16px;background:#f5ecd9;">
        <p style="margin:0;font-size:0.9rem;">Status: <strong style="color:#6b4a2f;text-transform:uppercase;">{{.Status}}</strong></p>
        <p style="margin:4px 0 0;font-size:0.95rem;">{{.Copy}}</p>
      </div>
      <p style="margin:24px 0 8px;font-size:0.9rem;">Peer review notes:</p>
      <p class="summary" style="margin:0 0 24px;font-size:0.95rem;line-height:1.5;white-space:pre-line;">{{.Summary}}</p>
      <a href="{{.Link}}" style="display:inline-block;padding:14px 26px;border-radius:999px;background:#6b4a2f;color:#fff;font-weight:600;text-decoration:none;">View the verdict</a>
      <p style="margin:24px 0 0;font-size:0.75rem;letter-spacing:0.2em;text-transform:uppercase;">CROM IS WATCHING</p>
    </div>
  </body>
</html>`))

type emailData struct {
	Title   string
	Hero    string
	Status  documents.Status
	Copy    string
	Summary string
	Link    string
}

// Subject returns the email subject for status.
func Subject(status documents.Status) string {
	if status == documents.StatusAccepted {
		return "The Journal of AI Slop™ — Accepted Notification"
	}
	return "The Journal of AI Slop™ — Rejected Notification"
}

func heroLine(status documents.Status) string {
	if status == documents.StatusAccepted {
		return "Crom has crowned your work slopworthy."
	}
	return "Crom has judged this entry not sloppy enough."
}

func statusCopy(status documents.Status) string {
	if status == documents.StatusAccepted {
		return "Your paper is officially accepted for publication. Expect a glorious procession of coffee rings and citations."
	}
	return "Your paper has been rejected after peer review—no hard feelings, the slop is still real."
}

func defaultSummary(status documents.Status) string {
	if status == documents.StatusAccepted {
		return "Stamped with 100% fully automated peer review."
	}
	return "A council of bots provided their snap judgment."
}

// Render builds the email for msg. siteURL is the public site root used for
// the call-to-action link.
func Render(msg Message, siteURL string) (*Email, error) {
	summary := msg.ReviewSummary
	if summary == "" {
		summary = defaultSummary(msg.Status)
	}

	data := emailData{
		Title:   msg.Title,
		Hero:    heroLine(msg.Status),
		Status:  msg.Status,
		Copy:    statusCopy(msg.Status),
		Summary: summary,
		Link:    PaperURL(siteURL, msg.DocumentID),
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}

	text, err := PlainText(buf.String())
	if err != nil {
		return nil, err
	}

	return &Email{
		Subject: Subject(msg.Status),
		HTML:    buf.String(),
		Text:    text,
	}, nil
}

// PaperURL returns the public page for a document.
func PaperURL(siteURL string, id uuid.UUID) string {
	return strings.TrimRight(siteURL, "/") + "/papers/" + id.String()
}

// PlainText derives the text part of an email from its HTML: one paragraph
// per heading or paragraph, and links rendered as "label: href".
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse email html: %w", err)
	}

	var blocks []string
	doc.Find("h1, p, a").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		switch {
		case s.HasClass("summary"):
			text = strings.TrimSpace(s.Text())
		case goquery.NodeName(s) == "a":
			if href, ok := s.Attr("href"); ok {
				text = fmt.Sprintf("%s: %s", text, href)
			}
		}
		if text != "" {
			blocks = append(blocks, text)
		}
	})

	return strings.Join(blocks, "\n\n"), nil
}
