package api

import (
	"fmt"

	"github.com/JaimeStill/slopjournal/internal/announcements"
	"github.com/JaimeStill/slopjournal/internal/config"
	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/internal/identifiers"
	"github.com/JaimeStill/slopjournal/internal/intake"
	"github.com/JaimeStill/slopjournal/internal/moderation"
	"github.com/JaimeStill/slopjournal/internal/notify"
	"github.com/JaimeStill/slopjournal/internal/publication"
	"github.com/JaimeStill/slopjournal/internal/queue"
	"github.com/JaimeStill/slopjournal/internal/review"
	"github.com/JaimeStill/slopjournal/internal/scheduler"
	"github.com/JaimeStill/slopjournal/internal/sitemap"
	"github.com/JaimeStill/slopjournal/pkg/openrouter"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents     documents.System
	Queue         queue.System
	Intake        intake.System
	Identifiers   identifiers.System
	Sitemap       sitemap.System
	Announcements announcements.System
	Publication   *publication.Coordinator
	Review        *review.Orchestrator
	Scheduler     *scheduler.Scheduler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()
	logger := runtime.Logger

	docs := documents.New(db, logger)
	q := queue.New(db, logger, runtime.Pagination)
	in := intake.New(db, &cfg.API.Intake, logger)
	ids := identifiers.New(db, docs, runtime.SiteURL, logger)
	sm := sitemap.New(db, runtime.Storage, docs, runtime.SiteURL, logger)

	var poster announcements.Poster
	if cfg.Announcements.Enabled() {
		p, err := announcements.NewPoster(&cfg.Announcements, logger)
		if err != nil {
			return nil, fmt.Errorf("announcements poster: %w", err)
		}
		poster = p
	}

	ann := announcements.New(db, &cfg.Announcements, announcements.Options{
		Drafter: openrouter.New(
			cfg.Announcements.Endpoint,
			cfg.Announcements.APIKey,
			cfg.Announcements.TimeoutDuration(),
		),
		Poster:      poster,
		Papers:      docs,
		SiteURL:     runtime.SiteURL,
		QuorumRatio: cfg.Review.QuorumRatio,
		Pagination:  runtime.Pagination,
	}, logger)

	pub := publication.New(ids, sm, ann, logger)

	gate, err := moderation.New(&cfg.Moderation, cfg.Review.TruncateLength, logger)
	if err != nil {
		return nil, fmt.Errorf("moderation gate: %w", err)
	}

	notifier, err := notify.New(&cfg.Notify, runtime.SiteURL, logger)
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}

	orch := review.New(review.Deps{
		Store:     docs,
		Screener:  gate,
		Judge:     openrouter.New(cfg.Review.Endpoint, cfg.Review.APIKey, cfg.Review.HTTPTimeoutDuration()),
		Publisher: pub,
		Notifier:  notifier,
	}, &cfg.Review, logger)

	return &Domain{
		Documents:     docs,
		Queue:         q,
		Intake:        in,
		Identifiers:   ids,
		Sitemap:       sm,
		Announcements: ann,
		Publication:   pub,
		Review:        orch,
		Scheduler:     scheduler.New(&cfg.Scheduler, q, orch, ann, logger),
	}, nil
}
