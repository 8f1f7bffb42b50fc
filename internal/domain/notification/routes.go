package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns notification router. Only the websocket handshake accepts
// wsAuthMiddleware; everything else goes through authMiddleware.
func (h *Handler) Routes(authMiddleware, wsAuthMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(wsAuthMiddleware).Get("/ws", h.WebSocket)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Get("/unread-count", h.GetUnreadCount)
		r.Post("/{id}/read", h.MarkAsRead)
		r.Post("/read-all", h.MarkAllAsRead)
	})

	return r
}
