package posts

import (
	"testing"
	"time"

	"github.com/peakformhq/peakform/internal/domain/models"
	"github.com/peakformhq/peakform/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func testPost(title, slug string) models.Post {
	return models.Post{
		Slug:    slug,
		Title:   title,
		Content: "<p>body</p>",
		Excerpt: "excerpt",
		FeaturedImage: models.ImageRef{
			URL:     "https://media.example.com/demo/image/upload/blog/" + slug + ".jpg",
			MediaID: "blog/" + slug,
		},
		Author:        "Admin",
		Status:        models.StatusPublished,
		PublishDate:   time.Now().UTC(),
		AllowComments: true,
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, testPost("First Session", "first-session"))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if created.ID.IsZero() {
		t.Error("ID should not be zero")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	byID, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Title != "First Session" {
		t.Errorf("Title = %q, want %q", byID.Title, "First Session")
	}

	bySlug, err := store.GetBySlug(ctx, "first-session")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if bySlug.ID != created.ID {
		t.Errorf("GetBySlug id = %v, want %v", bySlug.ID, created.ID)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("GetByID(missing) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Insert(ctx, testPost("Original", "original"))

	// Bump views so we can verify the update does not clobber them.
	if err := store.IncrementViews(ctx, created.ID); err != nil {
		t.Fatalf("IncrementViews() error = %v", err)
	}

	updated := created
	updated.Title = "Changed"
	updated.Content = "<p>new body</p>"
	if err := store.Update(ctx, created.ID, updated); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := store.GetByID(ctx, created.ID)
	if got.Title != "Changed" {
		t.Errorf("Title = %q, want Changed", got.Title)
	}
	if got.Views != 1 {
		t.Errorf("Views = %d, want 1 (update must not reset views)", got.Views)
	}

	if err := store.Update(ctx, primitive.NewObjectID(), updated); err != mongo.ErrNoDocuments {
		t.Errorf("Update(missing) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Insert(ctx, testPost("Doomed", "doomed"))

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); err != mongo.ErrNoDocuments {
		t.Errorf("GetByID after delete error = %v, want ErrNoDocuments", err)
	}
	if err := store.Delete(ctx, created.ID); err != mongo.ErrNoDocuments {
		t.Errorf("Delete(missing) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_SlugExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Insert(ctx, testPost("Taken", "taken"))

	exists, err := store.SlugExists(ctx, "taken", primitive.NilObjectID)
	if err != nil {
		t.Fatalf("SlugExists() error = %v", err)
	}
	if !exists {
		t.Error("SlugExists() should be true for existing slug")
	}

	exists, _ = store.SlugExists(ctx, "free", primitive.NilObjectID)
	if exists {
		t.Error("SlugExists() should be false for free slug")
	}

	// Excluding self must not count the post's own slug.
	exists, _ = store.SlugExists(ctx, "taken", created.ID)
	if exists {
		t.Error("SlugExists() should exclude the given id")
	}
}

func TestStore_IncrementViews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Insert(ctx, testPost("Popular", "popular"))

	store.IncrementViews(ctx, created.ID)
	store.IncrementViews(ctx, created.ID)

	got, _ := store.GetByID(ctx, created.ID)
	if got.Views != 2 {
		t.Errorf("Views = %d, want 2", got.Views)
	}
}

func TestStore_List_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		p := testPost("Post", "post-"+string(rune('a'+i)))
		p.PublishDate = base.Add(time.Duration(i) * time.Hour)
		if _, err := store.Insert(ctx, p); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	page1, info, err := store.List(ctx, ListOptions{Page: 1})
	if err != nil {
		t.Fatalf("List(page=1) error = %v", err)
	}
	if len(page1) != 10 {
		t.Errorf("page 1 count = %d, want 10", len(page1))
	}
	if !info.HasNextPage || info.HasPrevPage {
		t.Errorf("page 1 info = %+v", info)
	}

	page2, info, err := store.List(ctx, ListOptions{Page: 2})
	if err != nil {
		t.Fatalf("List(page=2) error = %v", err)
	}
	if len(page2) != 5 {
		t.Errorf("page 2 count = %d, want 5", len(page2))
	}
	if info.HasNextPage {
		t.Error("page 2 should not have a next page")
	}
	if !info.HasPrevPage {
		t.Error("page 2 should have a prev page")
	}
	if info.TotalPages != 2 || info.Total != 15 {
		t.Errorf("info = %+v, want total 15 over 2 pages", info)
	}

	// Newest publish date first.
	if page1[0].PublishDate.Before(page1[1].PublishDate) {
		t.Error("posts should be sorted by publish date descending")
	}
}

func TestStore_List_ExcludesContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Insert(ctx, testPost("Heavy", "heavy"))

	out, _, err := store.List(ctx, ListOptions{Page: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("count = %d, want 1", len(out))
	}
	if out[0].Content != "" {
		t.Errorf("Content should be excluded from listings, got %q", out[0].Content)
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := testPost("Sprint drills", "sprint-drills")
	a.Category = models.CategoryTraining
	a.Tags = []string{"speed", "drills"}
	store.Insert(ctx, a)

	b := testPost("Meal timing", "meal-timing")
	b.Category = models.CategoryNutrition
	b.Tags = []string{"fueling"}
	b.Featured = true
	store.Insert(ctx, b)

	c := testPost("Draft piece", "draft-piece")
	c.Status = models.StatusDraft
	store.Insert(ctx, c)

	out, _, _ := store.List(ctx, ListOptions{Page: 1, Category: models.CategoryTraining})
	if len(out) != 1 || out[0].Slug != "sprint-drills" {
		t.Errorf("category filter got %d posts", len(out))
	}

	out, _, _ = store.List(ctx, ListOptions{Page: 1, Tags: []string{"fueling", "nope"}})
	if len(out) != 1 || out[0].Slug != "meal-timing" {
		t.Errorf("tag any-of filter got %d posts", len(out))
	}

	out, _, _ = store.List(ctx, ListOptions{Page: 1, Status: models.StatusPublished})
	if len(out) != 2 {
		t.Errorf("status filter got %d posts, want 2", len(out))
	}

	featured := true
	out, _, _ = store.List(ctx, ListOptions{Page: 1, Featured: &featured})
	if len(out) != 1 || out[0].Slug != "meal-timing" {
		t.Errorf("featured filter got %d posts", len(out))
	}
}

func TestStore_List_TextSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := testPost("Marathon pacing guide", "marathon-pacing-guide")
	store.Insert(ctx, a)
	b := testPost("Strength block basics", "strength-block-basics")
	store.Insert(ctx, b)

	out, _, err := store.List(ctx, ListOptions{Page: 1, Search: "marathon"})
	if err != nil {
		t.Fatalf("List(search) error = %v", err)
	}
	if len(out) != 1 || out[0].Slug != "marathon-pacing-guide" {
		t.Errorf("search got %d posts", len(out))
	}
}

func TestStore_Tags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := testPost("One", "one")
	a.Tags = []string{"speed", "drills"}
	store.Insert(ctx, a)

	b := testPost("Two", "two")
	b.Tags = []string{"speed", "fueling"}
	store.Insert(ctx, b)

	draft := testPost("Three", "three")
	draft.Status = models.StatusDraft
	draft.Tags = []string{"hidden"}
	store.Insert(ctx, draft)

	tags, err := store.Tags(ctx)
	if err != nil {
		t.Fatalf("Tags() error = %v", err)
	}
	want := map[string]bool{"speed": true, "drills": true, "fueling": true}
	if len(tags) != len(want) {
		t.Fatalf("Tags() = %v, want 3 distinct published tags", tags)
	}
	for _, tag := range tags {
		if !want[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
}

func TestStore_Related(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	anchor := testPost("Anchor", "anchor")
	anchor.Category = models.CategoryTraining
	anchor.Tags = []string{"speed"}
	anchorCreated, _ := store.Insert(ctx, anchor)

	same := testPost("Same category", "same-category")
	same.Category = models.CategoryTraining
	store.Insert(ctx, same)

	tagged := testPost("Shared tag", "shared-tag")
	tagged.Category = models.CategoryNutrition
	tagged.Tags = []string{"speed"}
	store.Insert(ctx, tagged)

	other := testPost("Unrelated", "unrelated")
	other.Category = models.CategoryMindset
	store.Insert(ctx, other)

	related, err := store.Related(ctx, &anchorCreated, 3)
	if err != nil {
		t.Fatalf("Related() error = %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("Related() count = %d, want 2", len(related))
	}
	for _, p := range related {
		if p.ID == anchorCreated.ID {
			t.Error("Related() must exclude the post itself")
		}
	}
}
