package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/extract"
)

// Page ceiling of a deep extractor. The ceiling applies even when the
// configuration omits it.
const (
	DefaultMaxPages = 10
	MaxPagesLimit   = 100
)

var _ offerdoc.Extractor = (*DeepExtractor)(nil)

// DeepExtractor completes a fragment from linked or numbered sub-pages.
// Pages are fetched one after the other and run through a subset of
// table extractors; attributes not yet present on the parent fragment are
// copied to it.
type DeepExtractor struct {
	env      extract.Env
	fetcher  offerdoc.DocumentFetcher
	cfg      offerdoc.DeepConfig
	ds       *offerdoc.DatasourceConfig
	subset   []offerdoc.Extractor
	pattern  *regexp.Regexp
	maxPages int
}

// NewDeepExtractor creates a DeepExtractor running subset on every page.
// Returns ECONFIG if the URL is missing or the path pattern does not hold
// exactly one group.
func NewDeepExtractor(env extract.Env, fetcher offerdoc.DocumentFetcher, cfg offerdoc.DeepConfig, ds *offerdoc.DatasourceConfig, subset []offerdoc.Extractor) (*DeepExtractor, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, offerdoc.Errorf(offerdoc.ECONFIG, "deep extractor requires a url")
	}
	x := &DeepExtractor{
		env:      env,
		fetcher:  fetcher,
		cfg:      cfg,
		ds:       ds,
		subset:   subset,
		maxPages: ceiling(cfg.MaxPages),
	}
	if cfg.PathPattern != "" {
		re, err := regexp.Compile(cfg.PathPattern)
		if err != nil {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "deep extractor: invalid path pattern %q: %v", cfg.PathPattern, err)
		}
		if re.NumSubexp() != 1 {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "deep extractor: path pattern %q must hold one group", cfg.PathPattern)
		}
		x.pattern = re
	}
	return x, nil
}

// ceiling returns the effective page ceiling for a configured value.
func ceiling(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxPages
	case n > MaxPagesLimit:
		return MaxPagesLimit
	}
	return n
}

// Kind returns offerdoc.ExtractorDeep.
func (x *DeepExtractor) Kind() string { return offerdoc.ExtractorDeep }

// MaxPages returns the page ceiling in effect.
func (x *DeepExtractor) MaxPages() int { return x.maxPages }

// Extract fetches sub-pages of doc and copies their new attributes to f.
// Fetch failures end the walk and keep what was gathered.
func (x *DeepExtractor) Extract(ctx context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error {
	target, ok := x.resolve(doc)
	if !ok {
		return nil
	}
	logger := x.env.Logger.With("url", doc.URL(), "target", target)
	if x.cfg.Paginated() {
		x.paginate(ctx, logger, target, locale, f)
		return nil
	}
	x.follow(ctx, logger, target, locale, f)
	return nil
}

// resolve evaluates the target expression against doc, applies the literal
// replacements and makes the result absolute.
func (x *DeepExtractor) resolve(doc offerdoc.Document) (string, bool) {
	raw, err := x.env.Evaluator.EvalOne(doc, x.cfg.URL)
	if err != nil {
		if offerdoc.ErrorCode(err) == offerdoc.ENOTFOUND {
			x.env.Logger.Debug("deep target not found", "url", doc.URL(), "path", x.cfg.URL)
		} else {
			x.env.Logger.Warn("deep target skipped", "url", doc.URL(), "path", x.cfg.URL, "err", err)
		}
		return "", false
	}
	for _, r := range x.cfg.Replacements {
		raw = strings.ReplaceAll(raw, r.From, r.To)
	}
	abs, err := offerdoc.AbsoluteURL(doc.URL(), raw)
	if err != nil {
		x.env.Logger.Warn("deep target rejected", "url", doc.URL(), "value", raw, "err", err)
		return "", false
	}
	return abs, true
}

// paginate walks numbered pages until the ceiling or a failed fetch.
func (x *DeepExtractor) paginate(ctx context.Context, logger *slog.Logger, target, locale string, f *offerdoc.Fragment) {
	first := x.cfg.FirstPage
	if first <= 0 {
		first = 1
	}
	for i := 0; i < x.maxPages; i++ {
		pageURL, err := x.pageURL(target, first+i)
		if err != nil {
			logger.Warn("page url not built", "page", first+i, "err", err)
			return
		}
		page, ok := x.fetch(ctx, logger, pageURL)
		if !ok {
			return
		}
		added := x.run(ctx, page, locale, f)
		logger.Debug("page extracted", "page", first+i, "pageUrl", pageURL, "added", added)
	}
	logger.Debug("page ceiling reached", "maxPages", x.maxPages)
}

// follow walks a chain of sub-pages, each resolved from the previous one,
// until a page adds nothing, no new target appears or the ceiling is hit.
func (x *DeepExtractor) follow(ctx context.Context, logger *slog.Logger, target, locale string, f *offerdoc.Fragment) {
	seen := map[string]bool{}
	for i := 0; i < x.maxPages; i++ {
		seen[target] = true
		page, ok := x.fetch(ctx, logger, target)
		if !ok {
			return
		}
		added := x.run(ctx, page, locale, f)
		logger.Debug("sub-page extracted", "pageUrl", target, "added", added)
		if added == 0 {
			return
		}
		next, ok := x.resolve(page)
		if !ok || seen[next] {
			return
		}
		target = next
	}
	logger.Debug("page ceiling reached", "maxPages", x.maxPages)
}

func (x *DeepExtractor) fetch(ctx context.Context, logger *slog.Logger, pageURL string) (offerdoc.Document, bool) {
	if err := ctx.Err(); err != nil {
		logger.Debug("deep extraction canceled", "err", err)
		return nil, false
	}
	page, err := x.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		logger.Warn("sub-page fetch failed", "pageUrl", pageURL, "err", err)
		return nil, false
	}
	if page == nil {
		logger.Warn("sub-page fetch returned no document", "pageUrl", pageURL)
		return nil, false
	}
	return page, true
}

// run extracts page into a scratch fragment and copies to f every
// attribute and referential f does not hold yet. It returns how many were
// copied.
func (x *DeepExtractor) run(ctx context.Context, page offerdoc.Document, locale string, f *offerdoc.Fragment) int {
	scratch := offerdoc.NewFragment(page.URL(), x.ds.Name)
	for _, sub := range x.subset {
		if err := sub.Extract(ctx, page, locale, scratch); err != nil {
			x.env.Logger.Warn("sub-page extractor failed", "url", page.URL(), "kind", sub.Kind(), "err", err)
		}
	}

	added := 0
	for _, a := range scratch.Attributes() {
		if f.HasAttribute(a.Name) {
			continue
		}
		if err := f.AddAttribute(a); err == nil {
			added++
		}
	}
	for _, key := range offerdoc.ReferentialKeys {
		v := scratch.Referential(key)
		if v == "" || f.Referential(key) != "" {
			continue
		}
		if err := f.SetReferential(key, v); err == nil {
			added++
		}
		for _, id := range scratch.AlternateIDs {
			if id.Key == key {
				f.AlternateIDs = append(f.AlternateIDs, id)
			}
		}
	}
	return added
}

// pageURL numbers target either through the page query parameter or
// through the single group of the path pattern.
func (x *DeepExtractor) pageURL(target string, page int) (string, error) {
	n := strconv.Itoa(page)
	if x.cfg.PageParam != "" {
		u, err := url.Parse(target)
		if err != nil {
			return "", offerdoc.Errorf(offerdoc.EINVALID, "invalid url %q: %v", target, err)
		}
		q := u.Query()
		q.Set(x.cfg.PageParam, n)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	loc := x.pattern.FindStringSubmatchIndex(target)
	if loc == nil || loc[2] < 0 {
		return "", offerdoc.Errorf(offerdoc.EINVALID, "path pattern %q does not match %q", x.cfg.PathPattern, target)
	}
	return target[:loc[2]] + n + target[loc[3]:], nil
}

// RegisterDeep registers the deep kind on r. Sub-page extractors are built
// through r and must be of kind table.
func RegisterDeep(r *extract.Registry, env extract.Env, fetcher offerdoc.DocumentFetcher) {
	r.Register(offerdoc.ExtractorDeep, func(cfg offerdoc.ExtractorConfig, ds *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		if cfg.Deep == nil {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "deep extractor requires a deep section")
		}
		if len(cfg.Deep.Extractors) == 0 {
			return nil, offerdoc.Errorf(offerdoc.ECONFIG, "deep extractor declares no sub-page extractor")
		}
		for i, sub := range cfg.Deep.Extractors {
			if sub.Kind != offerdoc.ExtractorTable {
				return nil, offerdoc.Errorf(offerdoc.ECONFIG, "deep extractor: sub-page extractor %d has kind %q, only %q is allowed", i, sub.Kind, offerdoc.ExtractorTable)
			}
		}
		subset, err := r.BuildList(ds, cfg.Deep.Extractors)
		if err != nil {
			return nil, err
		}
		return NewDeepExtractor(env, fetcher, *cfg.Deep, ds, subset)
	})
}
