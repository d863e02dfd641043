package blogadmin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the admin post endpoints. Authentication is
// applied by the caller when mounting.
//
// When mounted at /api/admin/posts:
//   - GET    /api/admin/posts              - list posts, all statuses
//   - POST   /api/admin/posts              - create
//   - GET    /api/admin/posts/{id}         - read without counting a view
//   - PUT    /api/admin/posts/{id}         - update
//   - DELETE /api/admin/posts/{id}         - delete post and hosted images
//   - POST   /api/admin/posts/{id}/publish - force live
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/publish", h.Publish)
	return r
}
