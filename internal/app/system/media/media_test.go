package media

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const samplePayload = "data:image/png;base64,iVBORw0KGgo="

// newTestHost returns a fake media host plus a client pointed at it.
// Uploaded public ids and destroyed ids are recorded for assertions.
func newTestHost(t *testing.T) (*Client, *hostState) {
	t.Helper()
	state := &hostState{missing: make(map[string]bool)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		switch {
		case r.URL.Path == "/demo/image/upload":
			if state.failUploads {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			publicID := r.FormValue("public_id")
			if folder := r.FormValue("folder"); folder != "" {
				publicID = folder + "/" + publicID
			}
			state.uploads = append(state.uploads, publicID)
			json.NewEncoder(w).Encode(map[string]string{
				"secure_url": state.deliveryBase + "/demo/image/upload/v1712345678/" + publicID + ".jpg",
				"public_id":  publicID,
			})
		case r.URL.Path == "/demo/image/destroy":
			id := r.FormValue("public_id")
			state.destroys = append(state.destroys, id)
			result := "ok"
			if state.failDeletes || state.missing[id] {
				result = "not found"
			}
			json.NewEncoder(w).Encode(map[string]string{"result": result})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	state.deliveryBase = srv.URL

	client := New(Config{
		Cloud:       "demo",
		APIKey:      "key",
		APISecret:   "secret",
		UploadURL:   srv.URL,
		DeliveryURL: srv.URL,
		Folder:      "blog",
	}, zap.NewNop())

	return client, state
}

type hostState struct {
	deliveryBase string
	uploads      []string
	destroys     []string
	failUploads  bool
	failDeletes  bool
	missing      map[string]bool
}

func TestClient_Upload(t *testing.T) {
	client, state := newTestHost(t)

	asset, err := client.Upload(context.Background(), samplePayload, "blog", "my-post-featured")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if asset.PublicID != "blog/my-post-featured" {
		t.Errorf("PublicID = %q, want blog/my-post-featured", asset.PublicID)
	}
	if asset.URL == "" {
		t.Error("URL should not be empty")
	}
	if len(state.uploads) != 1 {
		t.Errorf("host received %d uploads, want 1", len(state.uploads))
	}

	// Round-trip: the returned URL derives back to the public id.
	if got := client.PublicIDFromURL(asset.URL); got != asset.PublicID {
		t.Errorf("PublicIDFromURL(%q) = %q, want %q", asset.URL, got, asset.PublicID)
	}
}

func TestClient_Upload_HostFailure(t *testing.T) {
	client, state := newTestHost(t)
	state.failUploads = true

	_, err := client.Upload(context.Background(), samplePayload, "blog", "x")
	if err == nil {
		t.Fatal("Upload() should fail when host errors")
	}
	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Errorf("error = %T, want *UploadError", err)
	}
}

func TestClient_Upload_NotInline(t *testing.T) {
	client, _ := newTestHost(t)

	_, err := client.Upload(context.Background(), "https://example.com/x.jpg", "blog", "x")
	if err == nil {
		t.Fatal("Upload() should reject non-inline payloads")
	}
}

func TestClient_Upload_Unconfigured(t *testing.T) {
	client := New(Config{}, zap.NewNop())

	_, err := client.Upload(context.Background(), samplePayload, "blog", "x")
	if err == nil {
		t.Fatal("Upload() should fail when unconfigured")
	}
}

func TestClient_Delete(t *testing.T) {
	client, state := newTestHost(t)

	if !client.Delete(context.Background(), "blog/gone") {
		t.Error("Delete() = false, want true")
	}
	if len(state.destroys) != 1 || state.destroys[0] != "blog/gone" {
		t.Errorf("destroys = %v", state.destroys)
	}

	// Missing id reports false, never an error.
	state.missing["blog/missing"] = true
	if client.Delete(context.Background(), "blog/missing") {
		t.Error("Delete(missing) = true, want false")
	}

	// Unconfigured client degrades to false.
	if New(Config{}, zap.NewNop()).Delete(context.Background(), "blog/x") {
		t.Error("Delete() on unconfigured client = true, want false")
	}
	if client.Delete(context.Background(), "") {
		t.Error("Delete(\"\") = true, want false")
	}
}

func TestClient_DeleteMany_PartialFailure(t *testing.T) {
	client, state := newTestHost(t)
	state.missing["blog/b"] = true

	deleted, failed := client.DeleteMany(context.Background(), []string{"blog/a", "blog/b", "blog/c"})
	if deleted != 2 || failed != 1 {
		t.Errorf("DeleteMany() = (%d, %d), want (2, 1)", deleted, failed)
	}
	// A failing delete must not stop the loop.
	if len(state.destroys) != 3 {
		t.Errorf("host received %d destroys, want 3", len(state.destroys))
	}
}

func TestClient_PublicIDFromURL(t *testing.T) {
	client := New(Config{
		Cloud:       "demo",
		APIKey:      "key",
		APISecret:   "secret",
		DeliveryURL: "https://res.media.example.com",
	}, zap.NewNop())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned with extension",
			url:  "https://res.media.example.com/demo/image/upload/v1712345678/blog/my-post.jpg",
			want: "blog/my-post",
		},
		{
			name: "no version segment",
			url:  "https://res.media.example.com/demo/image/upload/blog/my-post.png",
			want: "blog/my-post",
		},
		{
			name: "no extension",
			url:  "https://res.media.example.com/demo/image/upload/blog/my-post",
			want: "blog/my-post",
		},
		{
			name: "nested folder",
			url:  "https://res.media.example.com/demo/image/upload/v1/blog/2026/cover.webp",
			want: "blog/2026/cover",
		},
		{
			name: "foreign host",
			url:  "https://images.unsplash.com/photo-123.jpg",
			want: "",
		},
		{
			name: "wrong cloud",
			url:  "https://res.media.example.com/other/image/upload/blog/x.jpg",
			want: "",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := client.PublicIDFromURL(tt.url); got != tt.want {
				t.Errorf("PublicIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsInlinePayload(t *testing.T) {
	if !IsInlinePayload("data:image/png;base64,AAAA") {
		t.Error("data URI should be inline")
	}
	if IsInlinePayload("https://example.com/a.png") {
		t.Error("URL should not be inline")
	}
	if IsInlinePayload("") {
		t.Error("empty string should not be inline")
	}
}
