package extract

import (
	"context"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/json5"
)

const defaultJSONLDScripts = "//script[@type='application/ld+json']"

var _ offerdoc.Extractor = (*JSONLDExtractor)(nil)

// JSONLDExtractor reads fields from a JSON-LD block embedded in markup.
type JSONLDExtractor struct {
	env    Env
	cfg    offerdoc.JSONLDConfig
	fields *FieldExtractor
}

// NewJSONLDExtractor creates a JSONLDExtractor.
func NewJSONLDExtractor(env Env, cfg offerdoc.JSONLDConfig, ds *offerdoc.DatasourceConfig) *JSONLDExtractor {
	if cfg.Scripts == "" {
		cfg.Scripts = defaultJSONLDScripts
	}
	return &JSONLDExtractor{env: env, cfg: cfg, fields: NewFieldExtractor(env, cfg.Field, ds)}
}

// Kind returns offerdoc.ExtractorJSONLD.
func (x *JSONLDExtractor) Kind() string { return offerdoc.ExtractorJSONLD }

// Extract locates, repairs and decodes the block, then maps its fields.
// Blocks that cannot be found or decoded are logged and skipped.
func (x *JSONLDExtractor) Extract(ctx context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error {
	candidates, _ := x.env.many(doc, "jsonld", x.cfg.Scripts)
	block, err := json5.Locate(candidates, x.cfg.Contains)
	if err != nil {
		x.env.Logger.Debug("json-ld block not found", "url", doc.URL(), "contains", x.cfg.Contains, "candidates", len(candidates))
		return nil
	}
	ld, err := json5.ParseJSONLD(doc.URL(), block)
	if err != nil {
		x.env.Logger.Warn("json-ld block unreadable", "url", doc.URL(), "err", err)
		return nil
	}
	return x.fields.Extract(ctx, ld, locale, f)
}
