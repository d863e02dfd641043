// Package blog implements the post lifecycle: create, update, publish,
// delete, and reads. It owns the coupling between the record store and the
// media host: every image a post references is uploaded, tracked, and
// cleaned up here.
package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/peakformhq/peakform/internal/app/store/posts"
	"github.com/peakformhq/peakform/internal/app/store/storeutil"
	"github.com/peakformhq/peakform/internal/app/system/content"
	"github.com/peakformhq/peakform/internal/app/system/inputval"
	"github.com/peakformhq/peakform/internal/app/system/media"
	"github.com/peakformhq/peakform/internal/app/system/normalize"
	"github.com/peakformhq/peakform/internal/app/system/slug"
	"github.com/peakformhq/peakform/internal/domain/models"

	"github.com/google/uuid"
)

// MediaStore is the slice of the media client the service needs.
// *media.Client satisfies it.
type MediaStore interface {
	Upload(ctx context.Context, payload, folder, name string) (media.Asset, error)
	Delete(ctx context.Context, publicID string) bool
	DeleteMany(ctx context.Context, publicIDs []string) (deleted, failed int)
	PublicIDFromURL(url string) string
	Folder() string
}

// Service coordinates post writes across the record store and media host.
type Service struct {
	posts *posts.Store
	media MediaStore
	log   *zap.Logger
}

// NewService creates a Service.
func NewService(store *posts.Store, mediaStore MediaStore, log *zap.Logger) *Service {
	return &Service{posts: store, media: mediaStore, log: log}
}

// PostInput carries every writable post field. Image fields accept either
// an inline data URI (uploaded on save) or an already-hosted URL.
type PostInput struct {
	Title   string `json:"title" validate:"required,max=200" label:"Title"`
	Content string `json:"content" validate:"required" label:"Content"`
	Excerpt string `json:"excerpt" validate:"max=500" label:"Excerpt"`

	FeaturedImage    string `json:"featuredImage" validate:"required" label:"Featured image"`
	FeaturedImageAlt string `json:"featuredImageAlt"`

	Category string   `json:"category" validate:"postcategory" label:"Category"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author"`

	Status      string     `json:"status" validate:"poststatus" label:"Status"`
	PublishDate *time.Time `json:"publishDate"`
	Featured    bool       `json:"featured"`

	// AllowComments defaults to true when omitted.
	AllowComments *bool `json:"allowComments"`

	SEO SEOInput `json:"seo"`
}

// SEOInput mirrors models.SEOMeta with image fields as raw strings.
type SEOInput struct {
	Description  string   `json:"description" validate:"max=160" label:"SEO description"`
	Keywords     []string `json:"keywords"`
	FocusKeyword string   `json:"focusKeyword"`
	CanonicalURL string   `json:"canonicalUrl"`

	OGTitle       string `json:"ogTitle"`
	OGDescription string `json:"ogDescription"`
	OGImage       string `json:"ogImage"`

	TwitterTitle       string `json:"twitterTitle"`
	TwitterDescription string `json:"twitterDescription"`
	TwitterImage       string `json:"twitterImage"`
}

// validate normalizes the input in place, then runs the tag rules:
// required fields, the 200/500/160 length caps, and the status/category
// sets. The first failure comes back as a ValidationError.
func (s *Service) validate(in *PostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	in.Status = normalize.Status(in.Status)
	in.Category = normalize.Category(in.Category)
	in.Tags = normalize.Tags(in.Tags)

	if result := inputval.Validate(*in); result.HasErrors() {
		fe := result.Errors[0]
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	if result := inputval.Validate(in.SEO); result.HasErrors() {
		fe := result.Errors[0]
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return nil
}

// Create validates the input, allocates a unique slug, moves every inline
// image to the media host, and persists the post. A featured-image upload
// failure aborts the whole create; OG/Twitter and content image failures
// are logged and skipped.
func (s *Service) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	postSlug, err := slug.Allocate(ctx, s.posts, in.Title, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	featured, err := s.resolveRequired(ctx, in.FeaturedImage, in.FeaturedImageAlt, postSlug+"-featured")
	if err != nil {
		return nil, err
	}

	html, contentImages := s.processContent(ctx, in.Content, func(i int) string {
		return fmt.Sprintf("%s-content-%d", postSlug, i)
	})

	seo := s.buildSEO(ctx, in.SEO, models.SEOMeta{}, postSlug)

	now := time.Now().UTC()
	post := models.Post{
		Slug:          postSlug,
		Title:         in.Title,
		Content:       html,
		Excerpt:       strings.TrimSpace(in.Excerpt),
		FeaturedImage: featured,
		ContentImages: contentImages,
		SEO:           seo,
		Category:      in.Category,
		Tags:          in.Tags,
		Author:        in.Author,
		Status:        in.Status,
		Featured:      in.Featured,
		AllowComments: true,
		PublishDate:   now,
	}
	if post.Author == "" {
		post.Author = "Admin"
	}
	if post.Status == "" {
		post.Status = models.StatusDraft
	}
	if in.PublishDate != nil {
		post.PublishDate = in.PublishDate.UTC()
	}
	if in.AllowComments != nil {
		post.AllowComments = *in.AllowComments
	}

	created, err := s.posts.Insert(ctx, post)
	if err != nil {
		return nil, err
	}

	s.log.Info("post created",
		zap.String("id", created.ID.Hex()),
		zap.String("slug", created.Slug),
		zap.String("status", created.Status))

	return &created, nil
}

// Update re-validates the input and applies it to an existing post. Image
// fields only touch the media host when their value actually changed:
// a new inline payload deletes the old hosted image and uploads the new
// one, while an unchanged or plain-URL value is a no-op short-circuit.
// Content images are re-derived from the final HTML and every previously
// tracked id that is no longer referenced gets deleted.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in PostInput) (*models.Post, error) {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.validate(&in); err != nil {
		return nil, err
	}

	postSlug := existing.Slug
	if slug.Make(in.Title) != existing.Slug {
		postSlug, err = slug.Allocate(ctx, s.posts, in.Title, id)
		if err != nil {
			return nil, err
		}
	}

	featured, err := s.updateRequired(ctx, in.FeaturedImage, in.FeaturedImageAlt, existing.FeaturedImage, postSlug+"-featured-"+shortID())
	if err != nil {
		return nil, err
	}

	html, contentImages := s.processContent(ctx, in.Content, func(int) string {
		return fmt.Sprintf("%s-content-%s", postSlug, shortID())
	})

	// Delete every previously tracked content image that the new HTML no
	// longer references.
	current := make(map[string]struct{}, len(contentImages))
	for _, img := range contentImages {
		current[img.MediaID] = struct{}{}
	}
	var stale []string
	for _, img := range existing.ContentImages {
		if img.MediaID == "" {
			continue
		}
		if _, ok := current[img.MediaID]; !ok {
			stale = append(stale, img.MediaID)
		}
	}
	if len(stale) > 0 {
		deleted, failed := s.media.DeleteMany(ctx, stale)
		s.log.Info("stale content images removed",
			zap.String("slug", postSlug),
			zap.Int("deleted", deleted),
			zap.Int("failed", failed))
	}

	seo := s.buildSEO(ctx, in.SEO, existing.SEO, postSlug)

	post := *existing
	post.Slug = postSlug
	post.Title = in.Title
	post.Content = html
	post.Excerpt = strings.TrimSpace(in.Excerpt)
	post.FeaturedImage = featured
	post.ContentImages = contentImages
	post.SEO = seo
	post.Category = in.Category
	post.Tags = in.Tags
	post.Featured = in.Featured
	if in.Author != "" {
		post.Author = in.Author
	}
	if in.Status != "" {
		post.Status = in.Status
	}
	if in.PublishDate != nil {
		post.PublishDate = in.PublishDate.UTC()
	}
	if in.AllowComments != nil {
		post.AllowComments = *in.AllowComments
	}

	if err := s.posts.Update(ctx, id, post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.log.Info("post updated",
		zap.String("id", id.Hex()),
		zap.String("slug", post.Slug))

	return s.posts.GetByID(ctx, id)
}

// Delete removes the post and every hosted image it owns. Media deletes
// are issued for all ids even when some fail; the record is deleted
// regardless, after the media pass.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	if ids := post.MediaIDs(); len(ids) > 0 {
		deleted, failed := s.media.DeleteMany(ctx, ids)
		if failed > 0 {
			s.log.Warn("some post images could not be deleted",
				zap.String("id", id.Hex()),
				zap.Int("deleted", deleted),
				zap.Int("failed", failed))
		}
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	s.log.Info("post deleted", zap.String("id", id.Hex()), zap.String("slug", post.Slug))
	return nil
}

// Publish forces status to published. A zero or future publish date is
// backfilled to now so the post appears immediately.
func (s *Service) Publish(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	post.Status = models.StatusPublished
	if post.PublishDate.IsZero() || post.PublishDate.After(now) {
		post.PublishDate = now
	}

	if err := s.posts.Update(ctx, id, *post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.log.Info("post published", zap.String("id", id.Hex()), zap.String("slug", post.Slug))
	return s.posts.GetByID(ctx, id)
}

// AdminGet returns the full post without counting a view. View counts
// track reader traffic only.
func (s *Service) AdminGet(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// Get returns the full post and counts the read.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.countView(ctx, post)
}

// GetBySlug returns the full post by slug and counts the read.
func (s *Service) GetBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.countView(ctx, post)
}

func (s *Service) countView(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := s.posts.IncrementViews(ctx, post.ID); err != nil {
		// The read already succeeded; losing one count is not worth failing it.
		s.log.Warn("view increment failed", zap.String("id", post.ID.Hex()), zap.Error(err))
		return post, nil
	}
	post.Views++
	return post, nil
}

// List is a pass-through to the store's listing query.
func (s *Service) List(ctx context.Context, opts posts.ListOptions) ([]models.Post, storeutil.PageInfo, error) {
	return s.posts.List(ctx, opts)
}

// Related returns up to limit published posts sharing the category or a
// tag with post, newest first.
func (s *Service) Related(ctx context.Context, post *models.Post, limit int64) ([]models.Post, error) {
	return s.posts.Related(ctx, post, limit)
}

// Tags returns the distinct tags across published posts.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	return s.posts.Tags(ctx)
}

/* ------------------------------- images --------------------------------- */

// resolveRequired handles the featured image on create: inline payloads
// are uploaded (failure aborts), plain URLs just get their id derived.
func (s *Service) resolveRequired(ctx context.Context, value, alt, name string) (models.ImageRef, error) {
	value = strings.TrimSpace(value)
	if media.IsInlinePayload(value) {
		asset, err := s.media.Upload(ctx, value, s.media.Folder(), name)
		if err != nil {
			return models.ImageRef{}, err
		}
		return models.ImageRef{URL: asset.URL, MediaID: asset.PublicID, AltText: alt}, nil
	}
	return models.ImageRef{URL: value, MediaID: s.media.PublicIDFromURL(value), AltText: alt}, nil
}

// updateRequired handles the featured image on update. An unchanged URL is
// a short-circuit; a new inline payload deletes the old hosted image
// (best-effort) before uploading the replacement.
func (s *Service) updateRequired(ctx context.Context, value, alt string, old models.ImageRef, name string) (models.ImageRef, error) {
	value = strings.TrimSpace(value)
	if value == old.URL {
		old.AltText = alt
		return old, nil
	}
	if media.IsInlinePayload(value) {
		if old.MediaID != "" {
			s.media.Delete(ctx, old.MediaID)
		}
		asset, err := s.media.Upload(ctx, value, s.media.Folder(), name)
		if err != nil {
			return models.ImageRef{}, err
		}
		return models.ImageRef{URL: asset.URL, MediaID: asset.PublicID, AltText: alt}, nil
	}
	return models.ImageRef{URL: value, MediaID: s.media.PublicIDFromURL(value), AltText: alt}, nil
}

// resolveOptional handles OG/Twitter images: an upload failure is logged
// and the previous value kept, never surfaced.
func (s *Service) resolveOptional(ctx context.Context, value string, old models.ImageRef, name string) models.ImageRef {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.ImageRef{}
	}
	if value == old.URL {
		return old
	}
	if media.IsInlinePayload(value) {
		if old.MediaID != "" {
			s.media.Delete(ctx, old.MediaID)
		}
		asset, err := s.media.Upload(ctx, value, s.media.Folder(), name)
		if err != nil {
			s.log.Warn("optional image upload failed, keeping previous value",
				zap.String("name", name),
				zap.Error(err))
			return old
		}
		return models.ImageRef{URL: asset.URL, MediaID: asset.PublicID}
	}
	return models.ImageRef{URL: value, MediaID: s.media.PublicIDFromURL(value)}
}

// buildSEO maps SEOInput onto SEOMeta, resolving the two social images.
func (s *Service) buildSEO(ctx context.Context, in SEOInput, old models.SEOMeta, postSlug string) models.SEOMeta {
	return models.SEOMeta{
		Description:        in.Description,
		Keywords:           in.Keywords,
		FocusKeyword:       in.FocusKeyword,
		CanonicalURL:       in.CanonicalURL,
		OGTitle:            in.OGTitle,
		OGDescription:      in.OGDescription,
		OGImage:            s.resolveOptional(ctx, in.OGImage, old.OGImage, postSlug+"-og"),
		TwitterTitle:       in.TwitterTitle,
		TwitterDescription: in.TwitterDescription,
		TwitterImage:       s.resolveOptional(ctx, in.TwitterImage, old.TwitterImage, postSlug+"-twitter"),
	}
}

// processContent sanitizes the HTML, moves inline images to the media
// host, and re-derives the content image list from the final markup so the
// stored list always mirrors what the content actually references.
func (s *Service) processContent(ctx context.Context, html string, namer func(i int) string) (string, []models.ImageRef) {
	clean := content.Sanitize(html)
	final, _ := content.ReplaceInlineImages(ctx, clean, s.media.Folder(), namer, s.media, s.log)

	refs := content.ExtractHostedRefs(final, s.media)
	images := make([]models.ImageRef, 0, len(refs))
	for _, ref := range refs {
		images = append(images, models.ImageRef{URL: ref.URL, MediaID: ref.PublicID})
	}
	if len(images) == 0 {
		return final, nil
	}
	return final, images
}

func shortID() string {
	return uuid.NewString()[:8]
}
