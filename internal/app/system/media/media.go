// Package media wraps the external image-hosting service used for blog
// imagery. Uploads take a data-URI payload and return a delivery URL plus
// the host's public id; deletes are best-effort and never block the
// record-level operation that triggered them.
package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Asset is a hosted image: delivery URL plus the opaque public id used for
// later deletion.
type Asset struct {
	URL      string
	PublicID string
}

// UploadError reports a failed upload. Callers decide whether it aborts
// the whole operation (featured image) or is skipped and logged (content,
// OG, Twitter images).
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("media upload %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("media upload: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Config holds the media host credentials and endpoints.
// An empty APIKey or APISecret leaves the client unconfigured: uploads
// fail with an UploadError and deletes return false, so local/dev setups
// degrade instead of crashing.
type Config struct {
	Cloud       string // account identifier, part of every endpoint path
	APIKey      string
	APISecret   string
	UploadURL   string // API base, e.g. https://api.media.example.com/v1
	DeliveryURL string // Delivery base, e.g. https://res.media.example.com
	Folder      string // default folder for blog uploads, e.g. "blog"
}

// Client talks to the media host.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// New creates a media client.
func New(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  logger,
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.Cloud != "" && c.cfg.APIKey != "" && c.cfg.APISecret != ""
}

// Folder returns the configured default upload folder.
func (c *Client) Folder() string {
	if c.cfg.Folder == "" {
		return "blog"
	}
	return c.cfg.Folder
}

// IsInlinePayload reports whether s is an inline-encoded image payload
// (data URI) rather than a URL.
func IsInlinePayload(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

// Upload sends a data-URI payload to the host under folder/name and
// returns the resulting asset. The host accepts the data URI directly as
// the file parameter.
func (c *Client) Upload(ctx context.Context, payload, folder, name string) (Asset, error) {
	if !c.Configured() {
		return Asset{}, &UploadError{Name: name, Err: fmt.Errorf("media host not configured")}
	}
	if !IsInlinePayload(payload) {
		return Asset{}, &UploadError{Name: name, Err: fmt.Errorf("payload is not an inline image")}
	}

	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	}
	if folder != "" {
		params["folder"] = folder
	}
	if name != "" {
		params["public_id"] = name
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("file", payload)
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(c.cfg.UploadURL, "/"), c.cfg.Cloud)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Asset{}, &UploadError{Name: name, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Asset{}, &UploadError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Asset{}, &UploadError{Name: name, Err: fmt.Errorf("host returned status %d", resp.StatusCode)}
	}

	var body struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Asset{}, &UploadError{Name: name, Err: err}
	}
	if body.SecureURL == "" || body.PublicID == "" {
		return Asset{}, &UploadError{Name: name, Err: fmt.Errorf("host response missing url or public id")}
	}

	return Asset{URL: body.SecureURL, PublicID: body.PublicID}, nil
}

// Delete removes an asset by public id. It never returns an error: any
// failure (missing id, host unreachable, not configured) yields false so
// deletion problems never block a record-level operation.
func (c *Client) Delete(ctx context.Context, publicID string) bool {
	if publicID == "" || !c.Configured() {
		return false
	}

	params := map[string]string{
		"public_id": publicID,
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", strings.TrimRight(c.cfg.UploadURL, "/"), c.cfg.Cloud)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		c.log.Warn("media delete request build failed", zap.String("public_id", publicID), zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("media delete failed", zap.String("public_id", publicID), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("media delete rejected",
			zap.String("public_id", publicID),
			zap.Int("status", resp.StatusCode),
		)
		return false
	}

	var body struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("media delete response unreadable", zap.String("public_id", publicID), zap.Error(err))
		return false
	}
	if body.Result != "ok" {
		c.log.Warn("media delete not applied",
			zap.String("public_id", publicID),
			zap.String("result", body.Result),
		)
		return false
	}
	return true
}

// DeleteMany deletes assets one at a time. Partial failure is reported in
// the counts, never raised; a failing delete does not stop the loop.
func (c *Client) DeleteMany(ctx context.Context, publicIDs []string) (deleted, failed int) {
	for _, id := range publicIDs {
		if c.Delete(ctx, id) {
			deleted++
		} else {
			failed++
		}
	}
	return deleted, failed
}

// PublicIDFromURL derives the public id from a delivery URL: strip the
// upload-path prefix, any version segment, and the file extension.
// Returns "" for URLs that do not belong to the host.
func (c *Client) PublicIDFromURL(u string) string {
	if c.cfg.DeliveryURL == "" {
		return ""
	}
	prefix := strings.TrimRight(c.cfg.DeliveryURL, "/") + "/" + c.cfg.Cloud + "/image/upload/"
	if !strings.HasPrefix(u, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(u, prefix)

	// Version segment, e.g. v1712345678/
	if strings.HasPrefix(rest, "v") {
		if i := strings.IndexByte(rest, '/'); i > 1 {
			if isDigits(rest[1:i]) {
				rest = rest[i+1:]
			}
		}
	}

	// File extension
	if i := strings.LastIndexByte(rest, '.'); i > 0 && !strings.Contains(rest[i:], "/") {
		rest = rest[:i]
	}

	if rest == "" {
		return ""
	}
	return rest
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// sign computes the request signature: the sorted key=value pairs joined
// with & and suffixed with the API secret, hashed with SHA-1 per the
// host's protocol.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + c.cfg.APISecret))
	return hex.EncodeToString(sum[:])
}
