package offerdoc

import (
	"net/url"
	"strings"
)

// Resource tag values set by the built-in extractors.
const (
	TagImage    = "image"
	TagDocument = "document"
	TagPDF      = "pdf"
)

// Resource is a media file attached to an offer (picture, manual, datasheet).
type Resource struct {
	URL  string   `json:"url"`
	Tags []string `json:"tags,omitempty"`
}

// Validate returns an error unless the resource URL is an absolute http(s) URL.
func (r *Resource) Validate() error {
	u, err := url.Parse(r.URL)
	if err != nil {
		return Errorf(EINVALID, "invalid resource URL %q", r.URL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "resource URL must be absolute http(s): %q", r.URL)
	}
	return nil
}

// AbsoluteURL resolves href against the page it was found on. Protocol
// relative ("//cdn/x.jpg") and root relative ("/x.pdf") references take the
// scheme and host of the page. Fragments are dropped.
func AbsoluteURL(pageURL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return "", Errorf(EINVALID, "not an http reference: %q", href)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid page URL: %v", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", Errorf(EINVALID, "invalid reference %q: %v", href, err)
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", Errorf(EINVALID, "not an http reference: %q", href)
	}
	return resolved.String(), nil
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
