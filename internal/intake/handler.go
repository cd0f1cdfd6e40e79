package intake

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/slopjournal/pkg/formatting"
	"github.com/JaimeStill/slopjournal/pkg/handlers"
	"github.com/JaimeStill/slopjournal/pkg/routes"
)

// SubmitResponse is the body returned for an accepted submission.
type SubmitResponse struct {
	PaperID uuid.UUID `json:"paperId"`
	Message string    `json:"message"`
}

// FailureResponse is the body returned for a rejected submission.
type FailureResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Handler serves the submission endpoint.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler that caps request bodies at maxBodySize bytes.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "intake"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for submissions.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/papers",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Submit},
		},
	}
}

// Submit validates and records a paper.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var s Submission
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondJSON(w, http.StatusRequestEntityTooLarge, FailureResponse{
				Error:   "Submission too large",
				Details: []string{"Body exceeds " + formatting.FormatBytes(tooLarge.Limit, 0)},
			})
			return
		}
		h.logger.WarnContext(r.Context(), "invalid submission body", "error", err)
		handlers.RespondJSON(w, http.StatusBadRequest, FailureResponse{Error: "Invalid JSON body"})
		return
	}

	id, err := h.sys.Submit(r.Context(), s)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			handlers.RespondJSON(w, http.StatusBadRequest, FailureResponse{
				Error:   "Validation failed",
				Details: verr.Details,
			})
			return
		}

		h.logger.ErrorContext(r.Context(), "submission failed", "error", err)
		handlers.RespondJSON(w, http.StatusInternalServerError, FailureResponse{
			Error:   "Failed to submit paper",
			Details: []string{err.Error()},
		})
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, SubmitResponse{
		PaperID: id,
		Message: "Paper submitted successfully",
	})
}
