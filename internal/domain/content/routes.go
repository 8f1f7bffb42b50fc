package content

import "github.com/go-chi/chi/v5"

// AdminRoutes returns the moderator content router; callers mount it behind auth
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.Get)
	r.Post("/{id}/reject", h.Reject)
	return r
}
