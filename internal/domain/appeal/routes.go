package appeal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the author-facing router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/mine", h.ListMine)

	return r
}

// AdminRoutes returns the appeal review router; callers mount it behind
// moderator auth. Decisions additionally pass through adminOnly.
func (h *Handler) AdminRoutes(adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.With(adminOnly).Post("/{id}/decision", h.Decide)

	return r
}
