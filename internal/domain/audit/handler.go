package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/researchhub/researchhub-api/internal/pkg/response"
)

// Handler serves the audit trail to moderators
type Handler struct {
	service *Service
}

// NewHandler creates audit handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/audit-logs
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := Filter{Limit: 50}
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			filter.Limit = v
		}
	}
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			filter.Offset = v
		}
	}
	if action := q.Get("action"); action != "" {
		filter.Action = &action
	}
	if entityType := q.Get("entity_type"); entityType != "" {
		filter.EntityType = &entityType
	}
	if raw := q.Get("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid entity_id")
			return
		}
		filter.EntityID = &id
	}
	if raw := q.Get("actor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid actor_id")
			return
		}
		filter.ActorID = &id
	}

	logs, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.StorageFailure(w)
		return
	}

	response.WithMeta(w, logs, response.Meta{Total: total, Limit: filter.Limit})
}

// Routes returns audit router; callers mount it behind moderator auth
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}
