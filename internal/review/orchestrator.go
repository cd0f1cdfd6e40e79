// Package review runs the multi-judge peer review of a queued document:
// content screening, a parallel panel of LLM judges, quorum aggregation,
// and the post-decision side effects.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/moderation"
	"github.com/JaimeStill/slopjournal/internal/notify"
	"github.com/JaimeStill/slopjournal/internal/queue"
	"github.com/JaimeStill/slopjournal/pkg/openrouter"
)

// SummaryJudges is the number of judge reasonings quoted in notifications.
const SummaryJudges = 3

// Store is the subset of the document store the orchestrator writes through.
type Store interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	MarkUnderReview(ctx context.Context, id uuid.UUID) error
	Finalize(ctx context.Context, id uuid.UUID, outcome documents.Outcome) error
	Redact(ctx context.Context, id uuid.UUID, verdict moderation.Verdict) error
}

// Screener screens a submission before any judge sees it.
type Screener interface {
	Screen(ctx context.Context, in moderation.Input) moderation.Verdict
}

// Judge sends one completion request.
type Judge interface {
	Complete(ctx context.Context, req openrouter.Request) openrouter.Outcome
}

// Publisher runs the post-acceptance side effects. Only identifier
// conflicts are returned; other task failures are its own to log.
type Publisher interface {
	Published(ctx context.Context, doc *documents.Document) error
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Store     Store
	Screener  Screener
	Judge     Judge
	Publisher Publisher
	Notifier  notify.Notifier
}

// Orchestrator processes claimed queue items.
type Orchestrator struct {
	deps    Deps
	cfg     *Config
	logger  *slog.Logger
	shuffle func([]string)
}

// New creates an Orchestrator.
func New(deps Deps, cfg *Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		deps:   deps,
		cfg:    cfg,
		logger: logger.With("system", "review"),
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
}

// Process reviews the document behind item. Errors from loading, status
// transitions, finalization, and identifier conflicts are returned so the
// caller can dead-letter the item; other side-effect failures are logged
// only. A document that is redacted or already decided is left untouched.
func (o *Orchestrator) Process(ctx context.Context, item queue.Item) error {
	doc, err := o.deps.Store.Find(ctx, item.DocumentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, item.DocumentID)
		}
		return fmt.Errorf("load document: %w", err)
	}

	if doc.Blocked() {
		o.logger.WarnContext(ctx, "skipping redacted document", "id", doc.ID)
		return nil
	}
	if doc.Status.Terminal() {
		o.logger.WarnContext(ctx, "skipping decided document", "id", doc.ID, "status", doc.Status)
		return nil
	}

	verdict := o.deps.Screener.Screen(ctx, moderation.Input{
		Title:   doc.Title,
		Authors: doc.Authors,
		Tags:    doc.Tags,
		Content: doc.Content,
	})
	if verdict.Blocked {
		return o.redact(ctx, doc, item, verdict)
	}

	if err := o.deps.Store.MarkUnderReview(ctx, doc.ID); err != nil {
		return fmt.Errorf("mark under review: %w", err)
	}

	judgments := o.convene(ctx, doc)
	status := Aggregate(judgments, len(o.cfg.Roster), o.cfg.QuorumRatio)
	cost, tokens := Totals(judgments)

	if cost > o.cfg.MaxCost {
		o.logger.WarnContext(ctx, "review exceeded budget",
			"id", doc.ID,
			"title", doc.Title,
			"cost", fmt.Sprintf("$%.2f", cost),
			"limit", fmt.Sprintf("$%.2f", o.cfg.MaxCost),
		)
	}

	outcome := documents.Outcome{
		Status:          status,
		Judgments:       judgments,
		TotalReviewCost: cost,
		TotalTokens:     tokens,
	}
	if err := o.deps.Store.Finalize(ctx, doc.ID, outcome); err != nil {
		return fmt.Errorf("finalize review: %w", err)
	}

	doc.Status = status
	doc.Judgments = judgments
	doc.TotalReviewCost = cost
	doc.TotalTokens = tokens

	o.logger.InfoContext(ctx, "review complete",
		"id", doc.ID,
		"status", status,
		"cost", cost,
		"tokens", tokens,
	)

	if status == documents.StatusAccepted {
		if err := o.deps.Publisher.Published(ctx, doc); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}

	o.notify(ctx, item, doc, Summary(judgments, SummaryJudges))
	return nil
}

func (o *Orchestrator) redact(ctx context.Context, doc *documents.Document, item queue.Item, verdict moderation.Verdict) error {
	if err := o.deps.Store.Redact(ctx, doc.ID, verdict); err != nil {
		return fmt.Errorf("redact document: %w", err)
	}

	o.logger.WarnContext(ctx, "document redacted", "id", doc.ID, "reason", verdict.Reason)

	doc.Title = documents.RedactedMarker
	doc.Status = documents.StatusRejected
	o.notify(ctx, item, doc, "")
	return nil
}

// convene runs every judge in the shuffled roster concurrently. Results keep
// roster order; a judge's failure becomes its judgment.
func (o *Orchestrator) convene(ctx context.Context, doc *documents.Document) []documents.Judgment {
	roster := slices.Clone(o.cfg.Roster)
	o.shuffle(roster)

	prompt := BuildPrompt(doc, o.cfg.TruncateLength)
	judgments := make([]documents.Judgment, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(roster))

	for i, model := range roster {
		g.Go(func() error {
			jctx, cancel := context.WithTimeout(gctx, o.cfg.JudgeTimeoutDuration())
			defer cancel()

			outcome := o.deps.Judge.Complete(jctx, openrouter.Request{
				Model:       model,
				Prompt:      prompt,
				Temperature: o.cfg.Temperature,
				MaxTokens:   o.cfg.MaxTokens,
			})

			switch v := outcome.(type) {
			case openrouter.HTTPError:
				o.logger.WarnContext(ctx, "judge returned error status", "model", model, "status", v.Status)
			case openrouter.TransportError:
				o.logger.WarnContext(ctx, "judge call failed", "model", model, "error", v.Cause)
			}

			judgments[i] = NewJudgment(model, outcome)
			return nil
		})
	}

	g.Wait()
	return judgments
}

func (o *Orchestrator) notify(ctx context.Context, item queue.Item, doc *documents.Document, summary string) {
	to := item.Email()
	if to == "" {
		return
	}

	err := o.deps.Notifier.Send(ctx, notify.Message{
		To:            to,
		DocumentID:    doc.ID,
		Title:         doc.Title,
		Status:        doc.Status,
		ReviewSummary: summary,
	})
	if err != nil {
		o.logger.ErrorContext(ctx, "notification failed", "id", doc.ID, "error", err)
	}
}
