package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the public blog endpoints.
//
// When mounted at /api/blog:
//   - GET /api/blog            - list published posts
//   - GET /api/blog/categories - category set
//   - GET /api/blog/tags       - distinct tags
//   - GET /api/blog/{slug}     - full post (counts a view) plus related posts
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/categories", h.Categories)
	r.Get("/tags", h.Tags)
	r.Get("/{slug}", h.GetBySlug)
	return r
}
