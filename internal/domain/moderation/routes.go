package moderation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the reporter-facing router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.CreateReport)
	r.Get("/mine", h.ListMine)

	return r
}

// AdminRoutes returns the triage router; callers mount it behind moderator auth
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListOpen)
	r.Post("/bulk/resolve", h.BulkResolve)
	r.Post("/bulk/dismiss", h.BulkDismiss)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/review", h.StartReview)
	r.Post("/{id}/resolve", h.Resolve)
	r.Post("/{id}/dismiss", h.Dismiss)
	r.Put("/{id}/confidence", h.UpdateConfidence)

	return r
}
