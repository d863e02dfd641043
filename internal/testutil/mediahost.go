package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/peakformhq/peakform/internal/app/system/media"

	"go.uber.org/zap"
)

// MediaHost is a fake media host backed by httptest. It records every
// upload and destroy request so tests can assert on what the application
// sent, and can be told to fail uploads or report assets as missing.
type MediaHost struct {
	mu       sync.Mutex
	server   *httptest.Server
	uploads  []string // public ids in upload order
	destroys []string // public ids in destroy order

	FailUploads bool
	Missing     map[string]bool // public ids the host reports as not found on destroy
}

// NewMediaHost starts a fake media host and returns it together with a
// media.Client configured against it. The server shuts down via t.Cleanup.
func NewMediaHost(t *testing.T) (*MediaHost, *media.Client) {
	t.Helper()

	h := &MediaHost{Missing: make(map[string]bool)}
	h.server = httptest.NewServer(http.HandlerFunc(h.handle))
	t.Cleanup(h.server.Close)

	client := media.New(media.Config{
		Cloud:       "testcloud",
		APIKey:      "test-key",
		APISecret:   "test-secret",
		UploadURL:   h.server.URL,
		DeliveryURL: h.server.URL + "/cdn",
		Folder:      "blog",
	}, zap.NewNop())

	return h, client
}

// Uploads returns the public ids of all uploads received, in order.
func (h *MediaHost) Uploads() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.uploads...)
}

// Destroys returns the public ids of all destroy requests received, in order.
func (h *MediaHost) Destroys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.destroys...)
}

func (h *MediaHost) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/image/upload"):
		h.handleUpload(w, r)
	case strings.HasSuffix(r.URL.Path, "/image/destroy"):
		h.handleDestroy(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *MediaHost) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	fail := h.FailUploads
	h.mu.Unlock()
	if fail {
		http.Error(w, `{"error":{"message":"upload rejected"}}`, http.StatusBadRequest)
		return
	}

	publicID := r.FormValue("public_id")
	if folder := r.FormValue("folder"); folder != "" {
		publicID = folder + "/" + publicID
	}

	h.mu.Lock()
	h.uploads = append(h.uploads, publicID)
	h.mu.Unlock()

	secureURL := fmt.Sprintf("%s/cdn/testcloud/image/upload/v1700000000/%s.png", h.server.URL, publicID)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"secure_url": secureURL,
		"public_id":  publicID,
	})
}

func (h *MediaHost) handleDestroy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	publicID := r.FormValue("public_id")

	h.mu.Lock()
	h.destroys = append(h.destroys, publicID)
	missing := h.Missing[publicID]
	h.mu.Unlock()

	result := "ok"
	if missing {
		result = "not found"
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"result": result})
}
