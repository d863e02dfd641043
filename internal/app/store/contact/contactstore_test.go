package contact

import (
	"testing"

	"github.com/peakformhq/peakform/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	msg, err := store.Create(ctx, CreateInput{
		Name:    "Jordan Avery",
		Email:   "jordan@example.com",
		Phone:   "555-0101",
		Message: "Interested in sprint coaching.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if msg.ID.IsZero() {
		t.Error("ID should not be zero")
	}
	if msg.IsRead {
		t.Error("new messages should be unread")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStore_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	msg, _ := store.Create(ctx, CreateInput{Name: "A", Email: "a@example.com", Message: "hi"})

	if err := store.MarkRead(ctx, msg.ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	got, _ := store.GetByID(ctx, msg.ID)
	if !got.IsRead {
		t.Error("message should be read after MarkRead")
	}

	if err := store.MarkRead(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("MarkRead(missing) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_ListAndUnreadCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 3; i++ {
		store.Create(ctx, CreateInput{Name: "N", Email: "n@example.com", Message: "m"})
	}
	read, _ := store.Create(ctx, CreateInput{Name: "R", Email: "r@example.com", Message: "m"})
	store.MarkRead(ctx, read.ID)

	all, info, err := store.List(ctx, ListOptions{Page: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("List() count = %d, want 4", len(all))
	}
	if info.Total != 4 {
		t.Errorf("Total = %d, want 4", info.Total)
	}

	unread, _, err := store.List(ctx, ListOptions{Page: 1, UnreadOnly: true})
	if err != nil {
		t.Fatalf("List(unread) error = %v", err)
	}
	if len(unread) != 3 {
		t.Errorf("unread count = %d, want 3", len(unread))
	}

	n, err := store.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("UnreadCount() = %d, want 3", n)
	}
}
