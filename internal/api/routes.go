package api

import (
	"net/http"

	"github.com/JaimeStill/slopjournal/internal/config"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
	guard func(http.Handler) http.Handler,
) {
	admin := routes.Group{
		Prefix: "/admin",
		Children: []routes.Group{
			domain.Queue.Handler().Routes(),
			domain.Publication.Handler().Routes(),
			domain.Sitemap.Handler().AdminRoutes(),
			domain.Announcements.Handler().Routes(),
			newStorageHandler(runtime.Storage, runtime.Logger).routes(),
		},
	}
	if guard != nil {
		admin.Middleware = append(admin.Middleware, guard)
	}

	routes.Register(
		mux,
		domain.Documents.Handler().Routes(),
		domain.Intake.Handler(cfg.API.MaxBodySizeBytes()).Routes(),
		domain.Identifiers.Handler().Routes(),
		admin,
	)
}
