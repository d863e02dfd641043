// Package content prepares rich text post bodies for storage. It sanitizes
// editor HTML and moves inline base64 images out to the media host so the
// stored document only ever references hosted URLs.
package content

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/peakformhq/peakform/internal/app/system/media"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// imgTagRe matches <img> tags so src values can be rewritten in place.
	imgTagRe = regexp.MustCompile(`(?is)<img\b[^>]*>`)

	// srcAttrRe pulls the src attribute value out of an <img> tag.
	srcAttrRe = regexp.MustCompile(`(?is)\bsrc\s*=\s*"([^"]*)"`)
)

// policy is the shared bluemonday policy for post bodies.
// UGC plus data-URI images, which the editor emits for pasted pictures.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()

	// Tables and the extra formatting marks the editor produces.
	p.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("alt", "title", "width", "height").OnElements("img")

	return p
}()

// Sanitize cleans editor HTML, removing dangerous elements and attributes
// while keeping safe formatting, tables, and images (hosted or data-URI).
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return policy.Sanitize(html)
}

// Uploader sends an image payload to the media host.
type Uploader interface {
	Upload(ctx context.Context, payload, folder, name string) (media.Asset, error)
}

// ReplaceInlineImages finds every <img> whose src is a base64 data URI,
// uploads the payload, and substitutes the hosted URL into the HTML.
// Images are processed first to last; namer supplies the public name for
// the i-th inline image found.
//
// A failed upload is logged and the tag is left as-is so a transient host
// error never destroys content. The returned slice holds only the assets
// that were actually uploaded.
func ReplaceInlineImages(ctx context.Context, html, folder string, namer func(i int) string, up Uploader, log *zap.Logger) (string, []media.Asset) {
	if html == "" {
		return html, nil
	}

	var assets []media.Asset
	i := 0

	out := imgTagRe.ReplaceAllStringFunc(html, func(tag string) string {
		m := srcAttrRe.FindStringSubmatch(tag)
		if m == nil || !media.IsInlinePayload(m[1]) {
			return tag
		}

		idx := i
		i++

		asset, err := up.Upload(ctx, m[1], folder, namer(idx))
		if err != nil {
			log.Warn("inline image upload failed, leaving tag unchanged",
				zap.Int("index", idx),
				zap.Error(err))
			return tag
		}

		assets = append(assets, asset)
		return srcAttrRe.ReplaceAllString(tag, fmt.Sprintf(`src="%s"`, asset.URL))
	})

	return out, assets
}

// RefParser recognizes hosted media URLs and derives their public IDs.
// An empty id means the URL does not belong to the host.
type RefParser interface {
	PublicIDFromURL(url string) string
}

// ExtractHostedRefs scans HTML for <img> tags whose src points at the media
// host and returns the referenced assets. Used to diff content images across
// an update so orphaned uploads can be cleaned up.
func ExtractHostedRefs(html string, p RefParser) []media.Asset {
	if html == "" {
		return nil
	}

	var refs []media.Asset
	seen := make(map[string]struct{})

	for _, tag := range imgTagRe.FindAllString(html, -1) {
		m := srcAttrRe.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		id := p.PublicIDFromURL(m[1])
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		refs = append(refs, media.Asset{URL: m[1], PublicID: id})
	}

	return refs
}
