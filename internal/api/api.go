// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/slopjournal/internal/config"
	"github.com/JaimeStill/slopjournal/internal/infrastructure"
	"github.com/JaimeStill/slopjournal/pkg/auth"
	"github.com/JaimeStill/slopjournal/pkg/middleware"
	"github.com/JaimeStill/slopjournal/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned Domain gives the server access to the scheduler and the
// sitemap handler that live outside the module prefix.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, nil, err
	}

	var guard func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		verifier, err := auth.New(infra.Lifecycle.Context(), &cfg.Auth)
		if err != nil {
			return nil, nil, fmt.Errorf("auth init failed: %w", err)
		}
		guard = auth.Middleware(verifier, runtime.Logger)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime, guard)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))

	return m, domain, nil
}
