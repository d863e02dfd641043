// Package slug derives URL slugs from post titles and allocates unique ones
// against the store.
package slug

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Make lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Checker reports whether a slug is already taken, ignoring the post with
// excludeID so a post can keep its own slug across updates.
type Checker interface {
	SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error)
}

// Allocate returns a slug for title that no other post holds. On collision
// it probes title-1, title-2, ... until a free one is found.
func Allocate(ctx context.Context, c Checker, title string, excludeID primitive.ObjectID) (string, error) {
	base := Make(title)
	if base == "" {
		base = "post"
	}

	candidate := base
	for n := 1; ; n++ {
		taken, err := c.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
