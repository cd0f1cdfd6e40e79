package sitemap

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/slopjournal/pkg/handlers"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

// CacheControl is sent with the served sitemap.
const CacheControl = "public, max-age=0, s-maxage=3600, stale-while-revalidate=600"

// Handler serves the sitemap and its operator endpoint.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "sitemap"),
	}
}

// Routes returns the public sitemap route, mounted at the site root.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/sitemap.xml", Handler: h.Serve},
		},
	}
}

// AdminRoutes returns the operator routes.
func (h *Handler) AdminRoutes() routes.Group {
	return routes.Group{
		Prefix: "/sitemap",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/regenerate", Handler: h.Regenerate},
		},
	}
}

// Serve writes the latest stored sitemap.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	_, data, err := h.sys.Latest(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrAssetMissing):
			h.logger.WarnContext(r.Context(), "sitemap unavailable", "error", err)
			handlers.RespondText(w, http.StatusNotFound, err.Error())
		default:
			h.logger.ErrorContext(r.Context(), "sitemap load failed", "error", err)
			handlers.RespondText(w, http.StatusInternalServerError, "Sitemap unavailable")
		}
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Cache-Control", CacheControl)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Regenerate rebuilds the sitemap on demand.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	a, err := h.sys.Regenerate(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, a)
}
