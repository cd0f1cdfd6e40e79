package announcements

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Poster publishes a finished post and returns its remote identifier, if any.
type Poster interface {
	Post(ctx context.Context, body string) (string, error)
}

// NewPoster creates the poster selected by cfg.Mode.
func NewPoster(cfg *Config, logger *slog.Logger) (Poster, error) {
	client := &http.Client{Timeout: cfg.TimeoutDuration()}

	switch cfg.Mode {
	case ModeDebug:
		return &Debug{logger: logger.With("poster", "debug")}, nil
	case ModeX:
		return &X{endpoint: cfg.XEndpoint, token: cfg.XBearerToken, http: client}, nil
	case ModeWebhook:
		return &Webhook{url: cfg.WebhookURL, token: cfg.WebhookToken, http: client}, nil
	case ModeDisabled:
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown announcements mode %q", cfg.Mode)
	}
}

// Debug logs the post and returns a synthetic id.
type Debug struct {
	logger *slog.Logger
}

func (d *Debug) Post(ctx context.Context, body string) (string, error) {
	if err := checkLength(body); err != nil {
		return "", err
	}
	id := "debug-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	d.logger.InfoContext(ctx, "post drafted", "post_id", id, "body", body)
	return id, nil
}

// X posts through the X (Twitter) v2 API.
type X struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewX creates an X poster against endpoint.
func NewX(endpoint, token string, client *http.Client) *X {
	return &X{endpoint: endpoint, token: token, http: client}
}

type xResponse struct {
	Data *struct {
		ID string `json:"id"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

func (x *X) Post(ctx context.Context, body string) (string, error) {
	if err := checkLength(body); err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]string{"text": body})
	if err != nil {
		return "", fmt.Errorf("encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+x.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("x request: %w", err)
	}
	defer resp.Body.Close()

	var out xResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode < 300 {
		return "", fmt.Errorf("decode x response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "Unknown error"
		switch {
		case out.Error != nil && out.Error.Message != "":
			msg = out.Error.Message
		case out.Detail != "":
			msg = out.Detail
		case out.Title != "":
			msg = out.Title
		}
		return "", fmt.Errorf("x api error (%d): %s", resp.StatusCode, msg)
	}

	if out.Data == nil || out.Data.ID == "" {
		return "", fmt.Errorf("x api did not return a post id")
	}
	return out.Data.ID, nil
}

// Webhook hands the post to an automation webhook as plain text.
type Webhook struct {
	url   string
	token string
	http  *http.Client
}

// NewWebhook creates a webhook poster.
func NewWebhook(url, token string, client *http.Client) *Webhook {
	return &Webhook{url: url, token: token, http: client}
}

func (w *Webhook) Post(ctx context.Context, body string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Authorization", w.token)

	resp, err := w.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook returned %s", resp.Status)
	}
	return "", nil
}

func checkLength(body string) error {
	if utf8.RuneCountInString(body) > MaxPostLength {
		return fmt.Errorf("%w: %d characters", ErrTooLong, MaxPostLength)
	}
	return nil
}
