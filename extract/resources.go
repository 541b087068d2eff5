package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/offerdoc"
)

const (
	defaultResourceLinks  = "//a/@href"
	defaultResourceSuffix = ".pdf"
)

var _ offerdoc.Extractor = (*ResourcesExtractor)(nil)

// ResourcesExtractor discovers linked documents, by default PDF files.
type ResourcesExtractor struct {
	env Env
	cfg offerdoc.ResourcesConfig
}

// NewResourcesExtractor creates a ResourcesExtractor.
func NewResourcesExtractor(env Env, cfg offerdoc.ResourcesConfig) *ResourcesExtractor {
	if cfg.Links == "" {
		cfg.Links = defaultResourceLinks
	}
	if cfg.Suffix == "" {
		cfg.Suffix = defaultResourceSuffix
	}
	if len(cfg.Tags) == 0 {
		cfg.Tags = []string{offerdoc.TagDocument, offerdoc.TagPDF}
	}
	return &ResourcesExtractor{env: env, cfg: cfg}
}

// Kind returns offerdoc.ExtractorResources.
func (x *ResourcesExtractor) Kind() string { return offerdoc.ExtractorResources }

// Extract adds every matching link, made absolute against the page URL.
func (x *ResourcesExtractor) Extract(_ context.Context, doc offerdoc.Document, _ string, f *offerdoc.Fragment) error {
	hrefs, _ := x.env.many(doc, "resources", x.cfg.Links)
	for _, href := range hrefs {
		if x.cfg.Contains != "" && !strings.Contains(href, x.cfg.Contains) {
			continue
		}
		abs, err := offerdoc.AbsoluteURL(doc.URL(), href)
		if err != nil {
			x.env.Logger.Debug("link skipped", "url", doc.URL(), "href", href, "err", err)
			continue
		}
		if !hasSuffix(abs, x.cfg.Suffix) {
			continue
		}
		if err := f.AddResource(offerdoc.Resource{URL: abs, Tags: x.cfg.Tags}); err != nil {
			x.env.rejected(doc, "resource", abs, err)
		}
	}
	return nil
}

// hasSuffix compares the URL path, without query or fragment, to suffix.
func hasSuffix(raw, suffix string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), strings.ToLower(suffix))
}
