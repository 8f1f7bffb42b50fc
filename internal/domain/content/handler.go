package content

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/middleware"
	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/response"
	"github.com/researchhub/researchhub-api/internal/pkg/validator"
)

// Handler handles content moderation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates content handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get handles GET /admin/content/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid content ID")
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, c)
}

// Reject handles POST /admin/content/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid content ID")
		return
	}

	var req RejectContentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.service.Reject(r.Context(), middleware.GetUserID(r.Context()), id, req.Reason)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, c)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrContentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrAlreadyRejected):
		response.Conflict(w, err.Error())
	case apperr.IsValidation(err):
		response.BadRequest(w, err.Error())
	case apperr.IsStorage(err):
		response.StorageFailure(w)
	default:
		response.InternalError(w)
	}
}
