package appeal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/middleware"
	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/response"
	"github.com/researchhub/researchhub-api/internal/pkg/validator"
)

// Handler handles appeal HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates appeal handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /appeals
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppealRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.service.FileAppeal(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.Created(w, a)
}

// ListMine handles GET /appeals/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	appeals, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.handleError(w, err)
		return
	}
	if appeals == nil {
		appeals = []*Appeal{}
	}
	response.WithMeta(w, appeals, response.Meta{Total: len(appeals)})
}

// List handles GET /admin/appeals
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	appeals, err := h.service.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if appeals == nil {
		appeals = []*Appeal{}
	}
	response.WithMeta(w, appeals, response.Meta{Total: len(appeals), Limit: limit})
}

// Get handles GET /admin/appeals/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid appeal ID")
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, a)
}

// Decide handles POST /admin/appeals/{id}/decision
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid appeal ID")
		return
	}

	var req DecideRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.DecideAppeal(r.Context(), middleware.GetUserID(r.Context()), id, req.Decision, req.AdminResponse)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, DecisionResponseFromResult(result))
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAppealNotFound), errors.Is(err, ErrContentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotContentAuthor):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAppealNotPending), errors.Is(err, ErrAppealAlreadyExists), errors.Is(err, ErrContentNotRejected):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrDecisionInProgress):
		response.Locked(w, err.Error())
	case apperr.IsValidation(err):
		response.BadRequest(w, err.Error())
	case apperr.IsStorage(err):
		response.StorageFailure(w)
	default:
		response.InternalError(w)
	}
}
