// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageRef is a hosted image reference: the delivery URL plus the media
// host's public id, which is what delete calls need later.
type ImageRef struct {
	URL     string `bson:"url" json:"url"`
	MediaID string `bson:"media_id,omitempty" json:"mediaId,omitempty"`
	AltText string `bson:"alt_text,omitempty" json:"altText,omitempty"`
}

// SEOMeta carries per-post search and social metadata. All fields are
// optional; the site falls back to the post title/excerpt when unset.
type SEOMeta struct {
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	Keywords     []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
	FocusKeyword string   `bson:"focus_keyword,omitempty" json:"focusKeyword,omitempty"`
	CanonicalURL string   `bson:"canonical_url,omitempty" json:"canonicalUrl,omitempty"`

	OGTitle       string   `bson:"og_title,omitempty" json:"ogTitle,omitempty"`
	OGDescription string   `bson:"og_description,omitempty" json:"ogDescription,omitempty"`
	OGImage       ImageRef `bson:"og_image,omitempty" json:"ogImage,omitempty"`

	TwitterTitle       string   `bson:"twitter_title,omitempty" json:"twitterTitle,omitempty"`
	TwitterDescription string   `bson:"twitter_description,omitempty" json:"twitterDescription,omitempty"`
	TwitterImage       ImageRef `bson:"twitter_image,omitempty" json:"twitterImage,omitempty"`
}

// Post is a blog entry.
type Post struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug string             `bson:"slug" json:"slug"`

	Title   string `bson:"title" json:"title"`
	Content string `bson:"content,omitempty" json:"content,omitempty"` // HTML; excluded from list projections
	Excerpt string `bson:"excerpt,omitempty" json:"excerpt,omitempty"`

	FeaturedImage ImageRef `bson:"featured_image" json:"featuredImage"`

	// ContentImages mirrors every hosted image currently referenced inside
	// Content. Kept consistent on every save so deletes can clean up.
	ContentImages []ImageRef `bson:"content_images,omitempty" json:"contentImages,omitempty"`

	SEO SEOMeta `bson:"seo,omitempty" json:"seo,omitempty"`

	Category string   `bson:"category,omitempty" json:"category,omitempty"`
	Tags     []string `bson:"tags,omitempty" json:"tags,omitempty"`

	Author        string    `bson:"author" json:"author"`
	Status        string    `bson:"status" json:"status"`
	PublishDate   time.Time `bson:"publish_date" json:"publishDate"`
	Featured      bool      `bson:"featured" json:"featured"`
	AllowComments bool      `bson:"allow_comments" json:"allowComments"`

	Views int64 `bson:"views" json:"views"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusScheduled = "scheduled"
)

// AllStatuses returns all valid post statuses.
func AllStatuses() []string {
	return []string{StatusDraft, StatusPublished, StatusScheduled}
}

// IsValidStatus checks if a status is valid.
func IsValidStatus(s string) bool {
	for _, v := range AllStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Post categories
const (
	CategoryTraining         = "training"
	CategoryNutrition        = "nutrition"
	CategoryRecovery         = "recovery"
	CategoryMindset          = "mindset"
	CategoryInjuryPrevention = "injury-prevention"
	CategoryPerformance      = "performance"
)

// AllCategories returns the fixed set of post categories.
func AllCategories() []string {
	return []string{
		CategoryTraining,
		CategoryNutrition,
		CategoryRecovery,
		CategoryMindset,
		CategoryInjuryPrevention,
		CategoryPerformance,
	}
}

// IsValidCategory checks if a category is valid. Empty is allowed
// (uncategorized).
func IsValidCategory(c string) bool {
	if c == "" {
		return true
	}
	for _, v := range AllCategories() {
		if c == v {
			return true
		}
	}
	return false
}

// MediaIDs returns every media public id the post owns: featured image,
// all content images, and the OG/Twitter images. Duplicates are removed.
func (p *Post) MediaIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	add(p.FeaturedImage.MediaID)
	for _, img := range p.ContentImages {
		add(img.MediaID)
	}
	add(p.SEO.OGImage.MediaID)
	add(p.SEO.TwitterImage.MediaID)
	return ids
}
