package extract

import (
	"context"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.Extractor = (*CommentsExtractor)(nil)

// CommentsExtractor zips parallel lists into comments. When any configured
// list differs in length from the bodies, no comment is added.
type CommentsExtractor struct {
	env Env
	cfg offerdoc.CommentsConfig
	ds  *offerdoc.DatasourceConfig
}

// NewCommentsExtractor creates a CommentsExtractor.
func NewCommentsExtractor(env Env, cfg offerdoc.CommentsConfig, ds *offerdoc.DatasourceConfig) *CommentsExtractor {
	return &CommentsExtractor{env: env, cfg: cfg, ds: ds}
}

// Kind returns offerdoc.ExtractorComments.
func (x *CommentsExtractor) Kind() string { return offerdoc.ExtractorComments }

// Extract adds the comments of doc to f.
func (x *CommentsExtractor) Extract(_ context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error {
	bodies, _ := x.env.many(doc, "comment bodies", x.cfg.Bodies)
	if len(bodies) == 0 {
		return nil
	}
	lists, ok := zipLists(x.env, doc, "comments", len(bodies), map[string]string{
		"titles":  x.cfg.Titles,
		"authors": x.cfg.Authors,
		"dates":   x.cfg.Dates,
		"ratings": x.cfg.Ratings,
		"useful":  x.cfg.Useful,
		"useless": x.cfg.Useless,
	})
	if !ok {
		return nil
	}

	min, max, _ := scale(x.ds.Provider)
	for i, body := range bodies {
		c := offerdoc.Comment{
			Body:     body,
			Title:    at(lists["titles"], i),
			Author:   at(lists["authors"], i),
			Date:     parseDate(x.ds.Provider, at(lists["dates"], i)),
			Language: locale,
		}
		if raw := at(lists["ratings"], i); raw != "" {
			c.Rating = x.rating(doc, raw, min, max)
		}
		if raw := at(lists["useful"], i); raw != "" {
			c.Useful, _ = parseCount(raw)
		}
		if raw := at(lists["useless"], i); raw != "" {
			c.Useless, _ = parseCount(raw)
		}
		if err := f.AddComment(c); err != nil {
			x.env.rejected(doc, "comment", body, err)
		}
	}
	return nil
}

func (x *CommentsExtractor) rating(doc offerdoc.Document, raw string, min, max float64) *offerdoc.Rating {
	v, inline, err := parseScore(raw)
	if err != nil {
		x.env.rejected(doc, "comment rating", raw, err)
		return nil
	}
	if inline > 0 {
		max = inline
	}
	r := &offerdoc.Rating{
		Value: offerdoc.Float64(v),
		Min:   offerdoc.Float64(min),
		Max:   offerdoc.Float64(max),
		Types: []offerdoc.RatingType{offerdoc.RatingComment},
	}
	if err := r.Validate(); err != nil {
		x.env.rejected(doc, "comment rating", raw, err)
		return nil
	}
	return r
}

// zipLists evaluates every configured list expression and checks that each
// has n entries. On any mismatch it logs a warning and returns false.
func zipLists(env Env, doc offerdoc.Document, what string, n int, exprs map[string]string) (map[string][]string, bool) {
	lists := make(map[string][]string, len(exprs))
	for name, e := range exprs {
		if e == "" {
			continue
		}
		values, _ := env.many(doc, what+" "+name, e)
		if len(values) != n {
			env.Logger.Warn("list length mismatch, batch discarded",
				"url", doc.URL(), "batch", what, "list", name, "path", e, "want", n, "got", len(values))
			return nil, false
		}
		lists[name] = values
	}
	return lists, true
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}
