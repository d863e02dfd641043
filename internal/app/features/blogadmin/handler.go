// Package blogadmin exposes the authenticated post management API: create,
// update, delete, publish, and unrestricted listings.
package blogadmin

import (
	"errors"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	blogsvc "github.com/peakformhq/peakform/internal/app/blog"
	"github.com/peakformhq/peakform/internal/app/store/posts"
	"github.com/peakformhq/peakform/internal/app/system/jsonutil"
	"github.com/peakformhq/peakform/internal/app/system/media"
	"github.com/peakformhq/peakform/internal/app/system/normalize"

	"github.com/go-chi/chi/v5"
)

// Handler serves the admin post endpoints.
type Handler struct {
	svc *blogsvc.Service
	log *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *blogsvc.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// List returns one page of posts across all statuses. Query parameters:
// page, category, tag, status, search, featured.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := posts.ListOptions{
		Category: normalize.Category(q.Get("category")),
		Status:   normalize.Status(q.Get("status")),
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

	items, page, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.log.Error("admin post list failed", zap.Error(err))
		jsonutil.InternalError(w, "could not load posts")
		return
	}

	jsonutil.OK(w, map[string]any{
		"posts":      items,
		"pagination": page,
	})
}

// Create makes a new post from the request body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input blogsvc.PostInput
	if err := jsonutil.Decode(r, &input); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}

	post, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, err, "create")
		return
	}
	jsonutil.Created(w, map[string]any{"post": post})
}

// Get returns a single post by id, any status, without counting a view.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	// Admin reads go straight to the store; view counts are for readers.
	post, err := h.svc.AdminGet(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get")
		return
	}
	jsonutil.OK(w, map[string]any{"post": post})
}

// Update applies the request body to an existing post.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input blogsvc.PostInput
	if err := jsonutil.Decode(r, &input); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}

	post, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		h.writeError(w, err, "update")
		return
	}
	jsonutil.OK(w, map[string]any{"post": post})
}

// Delete removes a post and its hosted images.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "delete")
		return
	}
	jsonutil.NoContent(w)
}

// Publish forces a post live.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.svc.Publish(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "publish")
		return
	}
	jsonutil.OK(w, map[string]any{"post": post})
}

// pathID parses the {id} path segment, writing a 400 on junk.
func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		jsonutil.BadRequest(w, "invalid post id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeError maps service errors to HTTP responses: validation 400,
// missing 404, media host trouble 502, everything else 500.
func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	if ve, ok := blogsvc.AsValidation(err); ok {
		jsonutil.BadRequest(w, ve.Message)
		return
	}
	if errors.Is(err, blogsvc.ErrNotFound) {
		jsonutil.NotFound(w, "post not found")
		return
	}
	var ue *media.UploadError
	if errors.As(err, &ue) {
		h.log.Error("media host upload failed",
			zap.String("op", op),
			zap.String("image", ue.Name),
			zap.Error(err))
		jsonutil.BadGateway(w, "image upload failed")
		return
	}

	h.log.Error("post operation failed", zap.String("op", op), zap.Error(err))
	jsonutil.InternalError(w, "operation failed")
}
