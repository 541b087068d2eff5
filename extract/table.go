package extract

import (
	"context"
	"strings"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.Extractor = (*TableExtractor)(nil)

// TableExtractor reads attributes from rows, "name: value" strings or two
// parallel lists.
type TableExtractor struct {
	env Env
	cfg offerdoc.TableConfig
	ds  *offerdoc.DatasourceConfig
}

// NewTableExtractor creates a TableExtractor.
func NewTableExtractor(env Env, cfg offerdoc.TableConfig, ds *offerdoc.DatasourceConfig) *TableExtractor {
	if cfg.HeaderTag == "" {
		cfg.HeaderTag = "th"
	}
	if cfg.Separator == "" {
		cfg.Separator = ":"
	}
	return &TableExtractor{env: env, cfg: cfg, ds: ds}
}

// Kind returns offerdoc.ExtractorTable.
func (x *TableExtractor) Kind() string { return offerdoc.ExtractorTable }

// Extract adds every attribute found in doc to f.
func (x *TableExtractor) Extract(_ context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error {
	if x.cfg.Rows != "" {
		x.rows(doc, locale, f)
	}
	if x.cfg.Pairs != "" {
		x.pairs(doc, locale, f)
	}
	if x.cfg.Keys != "" && x.cfg.Values != "" {
		x.lists(doc, locale, f)
	}
	return nil
}

func (x *TableExtractor) add(doc offerdoc.Document, locale string, f *offerdoc.Fragment, name, value string) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(value) == "" {
		return
	}
	x.env.addAttribute(doc, x.ds.Provider, f, offerdoc.Attribute{Name: name, Value: value, Language: locale})
}

func (x *TableExtractor) rows(doc offerdoc.Document, locale string, f *offerdoc.Fragment) {
	rows, err := doc.Nodes(x.cfg.Rows)
	if err != nil {
		x.env.report(doc, "rows", x.cfg.Rows, err)
		return
	}
	for _, row := range rows {
		if x.cfg.Key != "" {
			name, ok := x.env.one(row, "key", x.cfg.Key)
			if !ok {
				continue
			}
			value, ok := x.env.one(row, "value", x.cfg.Value)
			if !ok {
				continue
			}
			x.add(doc, locale, f, name, value)
			continue
		}

		if row.Kind() == offerdoc.KindJSON {
			x.add(doc, locale, f, row.Name(), row.Text())
			continue
		}
		cells, err := row.Nodes("./*")
		if err != nil || len(cells) < 2 || x.headerOnly(cells) {
			continue
		}
		x.add(doc, locale, f, cells[0].Text(), cells[1].Text())
	}
}

// headerOnly reports whether every cell of a row is a header cell.
func (x *TableExtractor) headerOnly(cells []offerdoc.Document) bool {
	for _, c := range cells {
		if !strings.EqualFold(c.Name(), x.cfg.HeaderTag) {
			return false
		}
	}
	return true
}

func (x *TableExtractor) pairs(doc offerdoc.Document, locale string, f *offerdoc.Fragment) {
	pairs, _ := x.env.many(doc, "pairs", x.cfg.Pairs)
	for _, p := range pairs {
		name, value, found := strings.Cut(p, x.cfg.Separator)
		if !found {
			x.env.Logger.Debug("pair without separator", "url", doc.URL(), "value", p, "separator", x.cfg.Separator)
			continue
		}
		x.add(doc, locale, f, name, value)
	}
}

func (x *TableExtractor) lists(doc offerdoc.Document, locale string, f *offerdoc.Fragment) {
	keys, _ := x.env.many(doc, "keys", x.cfg.Keys)
	values, _ := x.env.many(doc, "values", x.cfg.Values)
	if len(keys) != len(values) {
		x.env.Logger.Warn("attribute lists length mismatch", "url", doc.URL(), "keys", len(keys), "values", len(values))
		return
	}
	for i := range keys {
		x.add(doc, locale, f, keys[i], values[i])
	}
}
