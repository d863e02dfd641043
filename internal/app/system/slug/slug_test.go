package slug

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMake(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My First Post", "my-first-post"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Hello, World!", "hello-world"},
		{"5K Training Plan (2026)", "5k-training-plan-2026"},
		{"---", ""},
		{"Café au lait", "caf-au-lait"},
		{"UPPER", "upper"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Make(tt.title); got != tt.want {
			t.Errorf("Make(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

// takenChecker marks a fixed set of slugs as in use, except when the probe
// carries the excluded id.
type takenChecker struct {
	taken   map[string]primitive.ObjectID
	exclude primitive.ObjectID
}

func (c takenChecker) SlugExists(_ context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	owner, ok := c.taken[slug]
	if !ok {
		return false, nil
	}
	if !excludeID.IsZero() && owner == excludeID {
		return false, nil
	}
	return true, nil
}

func TestAllocate(t *testing.T) {
	ctx := context.Background()
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()

	c := takenChecker{taken: map[string]primitive.ObjectID{
		"my-first-post":   other,
		"my-first-post-1": other,
		"race-day":        self,
	}}

	t.Run("free slug is used directly", func(t *testing.T) {
		got, err := Allocate(ctx, c, "Fresh Title", primitive.NilObjectID)
		if err != nil {
			t.Fatal(err)
		}
		if got != "fresh-title" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("collisions probe numeric suffixes", func(t *testing.T) {
		got, err := Allocate(ctx, c, "My First Post", primitive.NilObjectID)
		if err != nil {
			t.Fatal(err)
		}
		if got != "my-first-post-2" {
			t.Errorf("got %q, want my-first-post-2", got)
		}
	})

	t.Run("a post keeps its own slug on update", func(t *testing.T) {
		got, err := Allocate(ctx, c, "Race Day", self)
		if err != nil {
			t.Fatal(err)
		}
		if got != "race-day" {
			t.Errorf("got %q, want race-day", got)
		}
	})

	t.Run("empty title falls back to post", func(t *testing.T) {
		got, err := Allocate(ctx, c, "!!!", primitive.NilObjectID)
		if err != nil {
			t.Fatal(err)
		}
		if got != "post" {
			t.Errorf("got %q, want post", got)
		}
	})
}
