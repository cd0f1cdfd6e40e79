package publication

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/slopjournal/pkg/handlers"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

// Handler provides operator endpoints for publication tasks.
type Handler struct {
	coord  *Coordinator
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(coord *Coordinator, logger *slog.Logger) *Handler {
	return &Handler{
		coord:  coord,
		logger: logger.With("handler", "publication"),
	}
}

// Routes returns the route group definition for publication endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/identifiers",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/backfill", Handler: h.Backfill},
		},
	}
}

// Backfill mints missing identifiers and regenerates the sitemap.
func (h *Handler) Backfill(w http.ResponseWriter, r *http.Request) {
	result, err := h.coord.Backfill(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
