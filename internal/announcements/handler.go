package announcements

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/slopjournal/pkg/handlers"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

// Handler provides operator endpoints for announcements.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "announcements"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for announcement endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/announcements",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/daily-highlight", Handler: h.DailyHighlight},
		},
	}
}

// List returns a paginated list of recorded announcements.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// DailyHighlight runs the daily highlight on demand.
func (h *Handler) DailyHighlight(w http.ResponseWriter, r *http.Request) {
	a, err := h.sys.AnnounceDailyHighlight(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if a == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}
