package queue

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/slopjournal/pkg/handlers"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

// DefaultStaleAfter is used by the requeue endpoint when no duration is given.
const DefaultStaleAfter = 30 * time.Minute

// Handler provides operator endpoints for the review queue.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "queue"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for queue endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/queue",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
			{Method: "POST", Pattern: "/requeue-stale", Handler: h.RequeueStale},
		},
	}
}

// List returns a paginated list of queue items.
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

// Stats returns queue depth counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// RequeueStale releases stale claims. The optional older_than query
// parameter is a Go duration string.
func (h *Handler) RequeueStale(w http.ResponseWriter, r *http.Request) {
	after := DefaultStaleAfter
	if v := r.URL.Query().Get("older_than"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidAfter)
			return
		}
		after = d
	}

	n, err := h.sys.RequeueStale(r.Context(), after)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]int64{"released": n})
}
