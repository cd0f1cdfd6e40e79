package identifiers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/internal/documents"
	"github.com/JaimeStill/slopjournal/pkg/handlers"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

// Handler provides public identifier lookups.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "identifiers"),
	}
}

// Routes returns the route group definition for identifier lookups.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/papers/{id}/identifier", Handler: h.FindByDocument},
			{Method: "GET", Pattern: "/identifiers/{publicId}", Handler: h.FindByPublicID},
		},
	}
}

// FindByDocument returns the identifier of a paper.
func (h *Handler) FindByDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidID)
		return
	}

	ident, err := h.sys.FindByDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ident)
}

// FindByPublicID resolves a slop id to its paper.
func (h *Handler) FindByPublicID(w http.ResponseWriter, r *http.Request) {
	ident, err := h.sys.FindByPublicID(r.Context(), r.PathValue("publicId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ident)
}
