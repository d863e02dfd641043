// Package posts provides storage for blog posts.
package posts

import (
	"context"
	"time"

	"github.com/peakformhq/peakform/internal/app/store/storeutil"
	"github.com/peakformhq/peakform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the fixed page size for post listings.
const PageSize = 10

// Store provides access to the posts collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new post store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Insert creates a new post record. The id and timestamps are assigned here.
func (s *Store) Insert(ctx context.Context, post models.Post) (models.Post, error) {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// Update replaces the mutable fields of a post. The views counter and
// created_at are left untouched so concurrent reads are not lost.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, post models.Post) error {
	set := bson.M{
		"slug":            post.Slug,
		"title":           post.Title,
		"content":         post.Content,
		"excerpt":         post.Excerpt,
		"featured_image":  post.FeaturedImage,
		"content_images":  post.ContentImages,
		"seo":             post.SEO,
		"category":        post.Category,
		"tags":            post.Tags,
		"author":          post.Author,
		"status":          post.Status,
		"publish_date":    post.PublishDate,
		"featured":        post.Featured,
		"allow_comments":  post.AllowComments,
		"updated_at":      time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a post record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID retrieves a post by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post by slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugExists checks if a post with the given slug exists.
// Pass excludeID to exclude a specific post (used on updates so a post
// does not collide with itself).
func (s *Store) SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementViews adds one to the post's view counter.
func (s *Store) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListOptions contains filters for listing posts.
type ListOptions struct {
	Page     int64
	Category string
	Tags     []string // any-of match
	Status   string
	Featured *bool
	Search   string // full-text search over title/excerpt/tags
}

// List returns one page of posts matching the filters, newest publish date
// first, along with pagination metadata. The content field is excluded;
// list views never need the full body.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]models.Post, storeutil.PageInfo, error) {
	filter := bson.M{}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if len(opts.Tags) > 0 {
		filter["tags"] = bson.M{"$in": opts.Tags}
	}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
	if opts.Featured != nil {
		filter["featured"] = *opts.Featured
	}
	if opts.Search != "" {
		filter["$text"] = bson.M{"$search": opts.Search}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, storeutil.PageInfo{}, err
	}

	findOpts := storeutil.Paginate(PageSize, opts.Page).
		SetSort(bson.D{{Key: "publish_date", Value: -1}}).
		SetProjection(bson.M{"content": 0})

	cur, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, storeutil.PageInfo{}, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeutil.PageInfo{}, err
	}
	if out == nil {
		out = []models.Post{}
	}

	return out, storeutil.NewPageInfo(total, opts.Page, PageSize), nil
}

// Tags returns the distinct tags across published posts.
func (s *Store) Tags(ctx context.Context) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "tags", bson.M{"status": models.StatusPublished})
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		if t, ok := v.(string); ok && t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// Related returns up to limit published posts sharing the given post's
// category or any of its tags, excluding the post itself, newest first.
func (s *Store) Related(ctx context.Context, post *models.Post, limit int64) ([]models.Post, error) {
	or := []bson.M{}
	if post.Category != "" {
		or = append(or, bson.M{"category": post.Category})
	}
	if len(post.Tags) > 0 {
		or = append(or, bson.M{"tags": bson.M{"$in": post.Tags}})
	}
	if len(or) == 0 {
		return []models.Post{}, nil
	}

	filter := bson.M{
		"_id":    bson.M{"$ne": post.ID},
		"status": models.StatusPublished,
		"$or":    or,
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "publish_date", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"content": 0})

	cur, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Post{}
	}
	return out, nil
}
