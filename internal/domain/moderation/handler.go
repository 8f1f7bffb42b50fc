package moderation

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/middleware"
	"github.com/researchhub/researchhub-api/internal/pkg/apperr"
	"github.com/researchhub/researchhub-api/internal/pkg/response"
	"github.com/researchhub/researchhub-api/internal/pkg/validator"
)

// Handler handles report HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates moderation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateReport handles POST /reports
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	report, err := h.service.CreateReport(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.Created(w, report)
}

// ListMine handles GET /reports/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListMyReports(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.handleError(w, err)
		return
	}
	if reports == nil {
		reports = []*Report{}
	}
	response.WithMeta(w, reports, response.Meta{Total: len(reports)})
}

// ListOpen handles GET /admin/reports
func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request) {
	q := ListOpenReportsQuery{
		Sort:     r.URL.Query().Get("sort"),
		Severity: r.URL.Query().Get("severity"),
	}
	if errs := validator.Validate(&q); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.ListOpenReports(r.Context(), q)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, result)
}

// Get handles GET /admin/reports/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, item)
}

// StartReview handles POST /admin/reports/{id}/review
func (h *Handler) StartReview(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	report, err := h.service.StartReview(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, report)
}

// Resolve handles POST /admin/reports/{id}/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ResolveReportRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	report, err := h.service.ResolveReport(r.Context(), middleware.GetUserID(r.Context()), id, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, report)
}

// Dismiss handles POST /admin/reports/{id}/dismiss
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ResolveReportRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	report, err := h.service.DismissReport(r.Context(), middleware.GetUserID(r.Context()), id, req.Notes)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, report)
}

// BulkResolve handles POST /admin/reports/bulk/resolve
func (h *Handler) BulkResolve(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, h.service.BulkResolve)
}

// BulkDismiss handles POST /admin/reports/bulk/dismiss
func (h *Handler) BulkDismiss(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, h.service.BulkDismiss)
}

func (h *Handler) bulk(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) (int, error)) {
	var req BulkActionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	updated, err := apply(r.Context(), middleware.GetUserID(r.Context()), req.IDs)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, BulkActionResponse{Updated: updated})
}

// UpdateConfidence handles PUT /admin/reports/{id}/confidence
func (h *Handler) UpdateConfidence(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateConfidenceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := h.service.UpdateConfidence(r.Context(), middleware.GetUserID(r.Context()), id, *req.ConfidenceScore)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, item)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return uuid.Nil, false
	}
	return id, true
}

// decodeOptional accepts an empty body
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := response.DecodeJSON(r.Body, v); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return false
	}
	if errs := validator.Validate(v); errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReportNotFound), errors.Is(err, ErrContentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrReportNotOpen), errors.Is(err, ErrDuplicateReport):
		response.Conflict(w, err.Error())
	case apperr.IsValidation(err):
		response.BadRequest(w, err.Error())
	case apperr.IsStorage(err):
		response.StorageFailure(w)
	default:
		response.InternalError(w)
	}
}
