// Package scheduler runs the periodic review, stale-claim sweep, and daily
// highlight jobs on lifecycle-managed goroutines.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/announcements"
	"github.com/JaimeStill/slopjournal/internal/queue"
	"github.com/JaimeStill/slopjournal/pkg/lifecycle"
)

// Queue is the subset of the review queue the jobs drive.
type Queue interface {
	AcquireNext(ctx context.Context) (*queue.Item, error)
	Complete(ctx context.Context, id uuid.UUID) error
	RejectAndDrop(ctx context.Context, id, documentID uuid.UUID, reason string) error
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Processor reviews one queue item.
type Processor interface {
	Process(ctx context.Context, item queue.Item) error
}

// Highlighter posts the daily highlight.
type Highlighter interface {
	Enabled() bool
	AnnounceDailyHighlight(ctx context.Context) (*announcements.Announcement, error)
}

// Job is a named task run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
}

// Scheduler owns the background jobs.
type Scheduler struct {
	cfg         *Config
	queue       Queue
	processor   Processor
	highlighter Highlighter
	logger      *slog.Logger
}

// New creates a Scheduler.
func New(cfg *Config, q Queue, p Processor, h Highlighter, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:         cfg,
		queue:       q,
		processor:   p,
		highlighter: h,
		logger:      logger.With("system", "scheduler"),
	}
}

// Jobs returns the jobs this process should run.
func (s *Scheduler) Jobs() []Job {
	if !s.cfg.IsEnabled() {
		return nil
	}

	jobs := []Job{
		{Name: "review", Interval: s.cfg.ReviewIntervalDuration(), Run: s.review},
		{Name: "requeue-stale", Interval: s.cfg.StaleSweepIntervalDuration(), Run: s.requeueStale},
	}
	if s.highlighter != nil && s.highlighter.Enabled() {
		jobs = append(jobs, Job{Name: "daily-highlight", Interval: s.cfg.HighlightIntervalDuration(), Run: s.dailyHighlight})
	}
	return jobs
}

// Start launches one goroutine per job. Each returns when the lifecycle
// context is cancelled.
func (s *Scheduler) Start(lc *lifecycle.Coordinator) {
	jobs := s.Jobs()
	if len(jobs) == 0 {
		s.logger.Info("scheduler disabled")
		return
	}

	for _, job := range jobs {
		lc.Go(func(ctx context.Context) {
			s.loop(ctx, job)
		})
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	logger := s.logger.With("job", job.Name)
	logger.Info("job started", "interval", job.Interval)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("job stopped")
			return
		case <-ticker.C:
			job.Run(ctx)
		}
	}
}

func (s *Scheduler) review(ctx context.Context) {
	if _, err := s.Tick(ctx); err != nil {
		s.logger.ErrorContext(ctx, "review tick failed", "error", err)
	}
}

// Tick claims and reviews at most one queue item. It reports whether an
// item was claimed. A review error rejects the document and drops the item;
// success completes it. Items interrupted by shutdown stay claimed for the
// stale sweep to release.
func (s *Scheduler) Tick(ctx context.Context) (bool, error) {
	item, err := s.queue.AcquireNext(ctx)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	if err := s.process(ctx, item); err != nil {
		if ctx.Err() != nil {
			s.logger.WarnContext(ctx, "review interrupted", "id", item.ID, "document_id", item.DocumentID, "error", err)
			return true, nil
		}

		s.logger.ErrorContext(ctx, "review failed", "id", item.ID, "document_id", item.DocumentID, "error", err)
		if dropErr := s.queue.RejectAndDrop(ctx, item.ID, item.DocumentID, err.Error()); dropErr != nil {
			return true, fmt.Errorf("reject and drop %s: %w", item.ID, dropErr)
		}
		return true, nil
	}

	if err := s.queue.Complete(ctx, item.ID); err != nil {
		return true, fmt.Errorf("complete %s: %w", item.ID, err)
	}
	return true, nil
}

func (s *Scheduler) process(ctx context.Context, item *queue.Item) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("review panicked: %v", r)
		}
	}()
	return s.processor.Process(ctx, *item)
}

func (s *Scheduler) requeueStale(ctx context.Context) {
	n, err := s.queue.RequeueStale(ctx, s.cfg.StaleAfterDuration())
	if err != nil {
		s.logger.ErrorContext(ctx, "stale sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.WarnContext(ctx, "stale claims released", "count", n)
	}
}

func (s *Scheduler) dailyHighlight(ctx context.Context) {
	a, err := s.highlighter.AnnounceDailyHighlight(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "daily highlight failed", "error", err)
		return
	}
	if a == nil {
		s.logger.InfoContext(ctx, "daily highlight skipped")
	}
}
