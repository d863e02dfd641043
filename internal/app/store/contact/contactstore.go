// Package contact provides storage for contact form submissions.
package contact

import (
	"context"
	"time"

	"github.com/peakformhq/peakform/internal/app/store/storeutil"
	"github.com/peakformhq/peakform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PageSize is the fixed page size for inbox listings.
const PageSize = 10

// Store provides access to the contact_messages collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new contact message store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contact_messages")}
}

// CreateInput contains the input for creating a contact message.
type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Create inserts a new, unread contact message.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.ContactMessage, error) {
	now := time.Now().UTC()
	msg := models.ContactMessage{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Message:   input.Message,
		IsRead:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetByID retrieves a contact message by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListOptions contains filters for listing contact messages.
type ListOptions struct {
	Page       int64
	UnreadOnly bool
}

// List returns one page of contact messages, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]models.ContactMessage, storeutil.PageInfo, error) {
	filter := bson.M{}
	if opts.UnreadOnly {
		filter["is_read"] = false
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, storeutil.PageInfo{}, err
	}

	findOpts := storeutil.Paginate(PageSize, opts.Page).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, storeutil.PageInfo{}, err
	}
	defer cur.Close(ctx)

	var out []models.ContactMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeutil.PageInfo{}, err
	}
	if out == nil {
		out = []models.ContactMessage{}
	}

	return out, storeutil.NewPageInfo(total, opts.Page, PageSize), nil
}

// MarkRead flags a message as read.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UnreadCount returns the number of unread messages.
func (s *Store) UnreadCount(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"is_read": false})
}
