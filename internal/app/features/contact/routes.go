package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns a router with the visitor-facing contact endpoint.
//
// When mounted at /api/contact:
//   - POST /api/contact - submit a message
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	return r
}

// AdminRoutes returns a router with the inbox endpoints. Authentication is
// applied by the caller when mounting.
//
// When mounted at /api/admin/contact:
//   - GET   /api/admin/contact           - paginated inbox with unread count
//   - PATCH /api/admin/contact/{id}/read - mark a message read
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Patch("/{id}/read", h.MarkRead)
	return r
}
