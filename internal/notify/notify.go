package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// New builds the notifier selected by cfg.Mode.
func New(cfg *Config, siteURL string, logger *slog.Logger) (Notifier, error) {
	logger = logger.With("system", "notify")

	switch cfg.Mode {
	case ModeDisabled:
		return Disabled{}, nil
	case ModeLog:
		return &Log{siteURL: siteURL, logger: logger}, nil
	case ModeResend:
		return NewResend(cfg, siteURL, logger), nil
	}
	return nil, fmt.Errorf("unknown notify mode %q", cfg.Mode)
}

// Disabled drops every message.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return nil }

// Log renders messages and writes them to the logger instead of sending.
type Log struct {
	siteURL string
	logger  *slog.Logger
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	email, err := Render(msg, l.siteURL)
	if err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "notification",
		"to", msg.To,
		"subject", email.Subject,
		"text", email.Text,
	)
	return nil
}

// Resend sends messages through the Resend email API.
type Resend struct {
	endpoint string
	apiKey   string
	from     string
	siteURL  string
	http     *http.Client
	logger   *slog.Logger
}

// NewResend creates a Resend notifier.
func NewResend(cfg *Config, siteURL string, logger *slog.Logger) *Resend {
	return &Resend{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		siteURL:  siteURL,
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:   logger,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type resendResponse struct {
	ID string `json:"id"`
}

func (r *Resend) Send(ctx context.Context, msg Message) error {
	email, err := Render(msg, r.siteURL)
	if err != nil {
		return err
	}

	body, err := json.Marshal(resendRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend returned %s: %s", resp.Status, bytes.TrimSpace(detail))
	}

	var out resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode resend response: %w", err)
	}

	r.logger.InfoContext(ctx, "notification sent", "document_id", msg.DocumentID, "status", msg.Status, "email_id", out.ID)
	return nil
}
