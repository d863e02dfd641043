// Package blog exposes the public read-only blog API: listings, category
// and tag chips, and single-post reads.
package blog

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	blogsvc "github.com/peakformhq/peakform/internal/app/blog"
	"github.com/peakformhq/peakform/internal/app/store/posts"
	"github.com/peakformhq/peakform/internal/app/system/jsonutil"
	"github.com/peakformhq/peakform/internal/app/system/normalize"
	"github.com/peakformhq/peakform/internal/domain/models"

	"github.com/go-chi/chi/v5"
)

// relatedLimit is how many related posts accompany a single-post read.
const relatedLimit = 3

// Handler serves the public blog endpoints.
type Handler struct {
	svc *blogsvc.Service
	log *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *blogsvc.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// List returns one page of published posts. Query parameters: page,
// category, tag, search, featured.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)
	// The public surface only ever sees published posts.
	opts.Status = models.StatusPublished

	items, page, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.log.Error("blog list failed", zap.Error(err))
		jsonutil.InternalError(w, "could not load posts")
		return
	}

	jsonutil.OK(w, map[string]any{
		"posts":      items,
		"pagination": page,
	})
}

// Categories returns the fixed category set.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]any{"categories": models.AllCategories()})
}

// Tags returns the distinct tags across published posts.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		h.log.Error("tag listing failed", zap.Error(err))
		jsonutil.InternalError(w, "could not load tags")
		return
	}
	jsonutil.OK(w, map[string]any{"tags": tags})
}

// GetBySlug returns the full post, counts the view, and attaches related
// posts.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.svc.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, blogsvc.ErrNotFound) {
			jsonutil.NotFound(w, "post not found")
			return
		}
		h.log.Error("blog read failed", zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "could not load post")
		return
	}

	// Published posts only on the public surface.
	if post.Status != models.StatusPublished {
		jsonutil.NotFound(w, "post not found")
		return
	}

	related, err := h.svc.Related(r.Context(), post, relatedLimit)
	if err != nil {
		h.log.Warn("related posts lookup failed", zap.String("slug", slug), zap.Error(err))
		related = []models.Post{}
	}

	jsonutil.OK(w, map[string]any{
		"post":    post,
		"related": related,
	})
}

// listOptionsFromQuery builds store list options from the request query.
func listOptionsFromQuery(r *http.Request) posts.ListOptions {
	q := r.URL.Query()

	opts := posts.ListOptions{
		Category: normalize.Category(q.Get("category")),
		Search:   normalize.QueryParam(q.Get("search")),
	}
	if page, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil && page > 0 {
		opts.Page = page
	}
	if tag := normalize.Tag(q.Get("tag")); tag != "" {
		opts.Tags = []string{tag}
	}
	if f := q.Get("featured"); f != "" {
		v := f == "true" || f == "1"
		opts.Featured = &v
	}
	return opts
}
