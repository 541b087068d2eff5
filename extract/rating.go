package extract

import (
	"context"
	"slices"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.Extractor = (*RatingExtractor)(nil)

// RatingExtractor reads one rating. Value, scale and voter count come from
// literals or paths; the scale falls back to an inline "n/max" value, then
// to the provider scale, then to 1-5.
type RatingExtractor struct {
	env   Env
	cfg   offerdoc.RatingConfig
	ds    *offerdoc.DatasourceConfig
	types []offerdoc.RatingType
}

// NewRatingExtractor creates a RatingExtractor. Without configured types
// the rating is USER when a count is configured and TECHNICAL otherwise.
// Returns ECONFIG if a rating type is unknown, no value is configured or a
// USER rating has no count.
func NewRatingExtractor(env Env, cfg offerdoc.RatingConfig, ds *offerdoc.DatasourceConfig) (*RatingExtractor, error) {
	if cfg.Value == "" {
		return nil, offerdoc.Errorf(offerdoc.ECONFIG, "rating extractor requires a value")
	}
	types := make([]offerdoc.RatingType, 0, len(cfg.Types))
	for _, s := range cfg.Types {
		t, err := offerdoc.ParseRatingType(s)
		if err != nil {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "rating extractor: %s", offerdoc.ErrorMessage(err))
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		// User ratings are only valid with a voter count.
		if cfg.Count != "" {
			types = append(types, offerdoc.RatingUser)
		} else {
			types = append(types, offerdoc.RatingTechnical)
		}
	}
	if cfg.Count == "" && slices.Contains(types, offerdoc.RatingUser) {
		return nil, offerdoc.Errorf(offerdoc.ECONFIG, "rating extractor: USER ratings require a count")
	}
	return &RatingExtractor{env: env, cfg: cfg, ds: ds, types: types}, nil
}

// Kind returns offerdoc.ExtractorRating.
func (x *RatingExtractor) Kind() string { return offerdoc.ExtractorRating }

// Extract adds the rating found in doc to f. A rating that fails
// validation is logged and dropped.
func (x *RatingExtractor) Extract(_ context.Context, doc offerdoc.Document, _ string, f *offerdoc.Fragment) error {
	raw, ok := x.env.one(doc, "rating value", x.cfg.Value)
	if !ok {
		return nil
	}
	value, inline, err := parseScore(raw)
	if err != nil {
		x.env.rejected(doc, "rating value", raw, err)
		return nil
	}

	r := offerdoc.Rating{
		Value: offerdoc.Float64(value),
		Types: append([]offerdoc.RatingType(nil), x.types...),
	}
	if v, ok := x.number(doc, "rating min", x.cfg.Min); ok {
		r.Min = offerdoc.Float64(v)
	}
	if v, ok := x.number(doc, "rating max", x.cfg.Max); ok {
		r.Max = offerdoc.Float64(v)
	}
	if r.Max == nil && inline > 0 {
		r.Max = offerdoc.Float64(inline)
	}
	if r.Min == nil || r.Max == nil {
		min, max, configured := scale(x.ds.Provider)
		if !configured {
			x.env.Logger.Warn("rating scale unknown, assuming 1-5", "url", doc.URL(), "path", x.cfg.Value, "datasource", x.ds.Name)
		}
		if r.Min == nil {
			r.Min = offerdoc.Float64(min)
		}
		if r.Max == nil {
			r.Max = offerdoc.Float64(max)
		}
	}
	if x.cfg.Count != "" {
		if raw, ok := x.env.one(doc, "rating count", x.cfg.Count); ok {
			n, err := parseCount(raw)
			if err != nil {
				x.env.rejected(doc, "rating count", raw, err)
			} else {
				r.VoterCount = offerdoc.Int(n)
			}
		}
	}

	if err := f.AddRating(r); err != nil {
		x.env.rejected(doc, "rating", raw, err)
	}
	return nil
}

func (x *RatingExtractor) number(doc offerdoc.Document, field, expression string) (float64, bool) {
	raw, ok := x.env.one(doc, field, expression)
	if !ok {
		return 0, false
	}
	v, err := parseNumber(raw)
	if err != nil {
		x.env.rejected(doc, field, raw, err)
		return 0, false
	}
	return v, true
}
