package documents

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/pkg/handlers"
	"github.com/JaimeStill/slopjournal/pkg/pagination"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

// Handler provides the public read endpoints for papers.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// ListResponse is the body of the public paper listing.
// Cursor is empty when there are no further pages.
type ListResponse struct {
	Papers []Document `json:"papers"`
	Cursor string     `json:"cursor"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "documents"),
	}
}

// Routes returns the route group definition for paper read endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/papers",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// List returns a cursor page of non-blocked papers, accepted by default.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	page := pagination.CursorRequestFromQuery(r.URL.Query())

	result, err := h.sys.ListPublic(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	papers := result.Data
	if papers == nil {
		papers = []Document{}
	}
	handlers.RespondJSON(w, http.StatusOK, ListResponse{Papers: papers, Cursor: result.Next})
}

// Find returns a single non-blocked paper by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	doc, err := h.sys.FindPublic(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}
