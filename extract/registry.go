package extract

import (
	"sort"
	"sync"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.ExtractorRegistry = (*Registry)(nil)

// Registry maps extractor kinds to the factories that build them from
// configuration. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]offerdoc.ExtractorFactory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]offerdoc.ExtractorFactory)}
}

// NewDefaultRegistry creates a Registry holding every built-in kind except
// deep extraction, which needs a fetcher and is registered by the crawl
// package.
func NewDefaultRegistry(env Env) *Registry {
	r := NewRegistry()
	RegisterBuiltins(r, env)
	return r
}

// Register adds a factory for kind, replacing any previous one.
func (r *Registry) Register(kind string, factory offerdoc.ExtractorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Get returns the factory registered for kind.
func (r *Registry) Get(kind string) (offerdoc.ExtractorFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	return f, ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build returns the extractors of ds in configured order.
// Returns ECONFIG if ds is invalid or an entry cannot be built.
func (r *Registry) Build(ds *offerdoc.DatasourceConfig) ([]offerdoc.Extractor, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return r.BuildList(ds, ds.Extractors)
}

// BuildList builds cfgs in order on behalf of ds.
func (r *Registry) BuildList(ds *offerdoc.DatasourceConfig, cfgs []offerdoc.ExtractorConfig) ([]offerdoc.Extractor, error) {
	extractors := make([]offerdoc.Extractor, 0, len(cfgs))
	for i, cfg := range cfgs {
		factory, ok := r.Get(cfg.Kind)
		if !ok {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "datasource %s: extractor %d: unknown kind %q", ds.Name, i, cfg.Kind)
		}
		x, err := factory(cfg, ds)
		if err != nil {
			if offerdoc.ErrorCode(err) == offerdoc.ECONFIG {
				return nil, offerdoc.Errorf(offerdoc.ECONFIG, "datasource %s: extractor %d: %s", ds.Name, i, offerdoc.ErrorMessage(err))
			}
			return nil, err
		}
		extractors = append(extractors, x)
	}
	return extractors, nil
}

// RegisterBuiltins registers the single-page extractor kinds on r.
func RegisterBuiltins(r offerdoc.ExtractorRegistry, env Env) {
	r.Register(offerdoc.ExtractorField, func(cfg offerdoc.ExtractorConfig, ds *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		if cfg.Field == nil {
			return nil, missing(cfg.Kind)
		}
		return NewFieldExtractor(env, *cfg.Field, ds), nil
	})
	r.Register(offerdoc.ExtractorJSON, func(cfg offerdoc.ExtractorConfig, ds *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		if cfg.Field == nil {
			return nil, missing("field")
		}
		return NewJSONExtractor(env, *cfg.Field, ds), nil
	})
	r.Register(offerdoc.ExtractorJSONLD, func(cfg offerdoc.ExtractorConfig, ds *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		if cfg.JSONLD == nil {
			return nil, missing(cfg.Kind)
		}
		return NewJSONLDExtractor(env, *cfg.JSONLD, ds), nil
	})
	r.Register(offerdoc.ExtractorTable, func(cfg offerdoc.ExtractorConfig, ds *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		if cfg.Table == nil {
			return nil, missing(cfg.Kind)
		}
		t := cfg.Table
		if t.Rows == "" && t.Pairs == "" && (t.Keys == "" || t.Values == "") {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "table extractor requires rows, pairs or keys and values")
		}
		return NewTableExtractor(env, *t, ds), nil
	})
	r.Register(offerdoc.ExtractorComments, func(cfg offerdoc.ExtractorConfig, ds *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		if cfg.Comments == nil || cfg.Comments.Bodies == "" {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "comments extractor requires bodies")
		}
		return NewCommentsExtractor(env, *cfg.Comments, ds), nil
	})
	r.Register(offerdoc.ExtractorQuestions, func(cfg offerdoc.ExtractorConfig, ds *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		if cfg.Questions == nil || cfg.Questions.Questions == "" {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "questions extractor requires questions")
		}
		return NewQuestionsExtractor(env, *cfg.Questions, ds), nil
	})
	r.Register(offerdoc.ExtractorRating, func(cfg offerdoc.ExtractorConfig, ds *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		if cfg.Rating == nil {
			return nil, missing(cfg.Kind)
		}
		return NewRatingExtractor(env, *cfg.Rating, ds)
	})
	r.Register(offerdoc.ExtractorResources, func(cfg offerdoc.ExtractorConfig, _ *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		var rc offerdoc.ResourcesConfig
		if cfg.Resources != nil {
			rc = *cfg.Resources
		}
		return NewResourcesExtractor(env, rc), nil
	})
}

func missing(section string) error {
	return offerdoc.Errorf(offerdoc.ECONFIG, "%s extractor requires a %s section", section, section)
}
