package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/offerdoc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/fwojciec/offerdoc/crawl")

// Pipeline turns the documents of one datasource into merged fragments.
// Extractors run one after the other, in configured order, against the
// same fragment.
type Pipeline struct {
	Datasource *offerdoc.DatasourceConfig
	Extractors []offerdoc.Extractor

	// Store and Indexer are used by Process. Indexer is optional.
	Store   offerdoc.FragmentStore
	Indexer offerdoc.FragmentIndexer

	Logger *slog.Logger
}

// NewPipeline builds the extractors of ds through registry.
// Returns ECONFIG if the configuration is invalid.
func NewPipeline(ds *offerdoc.DatasourceConfig, registry offerdoc.ExtractorRegistry) (*Pipeline, error) {
	extractors, err := registry.Build(ds)
	if err != nil {
		return nil, err
	}
	return &Pipeline{Datasource: ds, Extractors: extractors}, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

// Extract builds and validates the fragment of doc.
// Returns EEVICTED if an extractor evicted the page and EFRAGMENT, together
// with the fragment, if the result fails validation.
func (p *Pipeline) Extract(ctx context.Context, doc offerdoc.Document) (_ *offerdoc.Fragment, err error) {
	ctx, span := tracer.Start(ctx, "pipeline.extract", trace.WithAttributes(
		attribute.String("offer.url", doc.URL()),
		attribute.String("offer.datasource", p.Datasource.Name),
	))
	defer func() { end(span, err) }()

	f := offerdoc.NewFragment(doc.URL(), p.Datasource.Name)
	for _, x := range p.Extractors {
		if err := p.run(ctx, x, doc, f); err != nil {
			return nil, err
		}
	}

	if err := f.Validate(); err != nil {
		p.logger().Warn("fragment rejected", "url", doc.URL(), "datasource", p.Datasource.Name, "err", err)
		return f, err
	}
	return f, nil
}

// run invokes one extractor. Only eviction is returned; other failures are
// logged and extraction goes on.
func (p *Pipeline) run(ctx context.Context, x offerdoc.Extractor, doc offerdoc.Document, f *offerdoc.Fragment) (err error) {
	ctx, span := tracer.Start(ctx, "extractor."+x.Kind())
	defer func() { end(span, err) }()

	err = x.Extract(ctx, doc, p.Datasource.Locale, f)
	switch {
	case err == nil:
		return nil
	case offerdoc.ErrorCode(err) == offerdoc.EEVICTED:
		p.logger().Info("page evicted", "url", doc.URL(), "kind", x.Kind(), "err", offerdoc.ErrorMessage(err))
		return err
	default:
		p.logger().Warn("extractor failed", "url", doc.URL(), "kind", x.Kind(), "err", err)
		return nil
	}
}

// Process extracts doc, folds the result into the stored state of the
// offer, saves it and hands it to the indexer.
func (p *Pipeline) Process(ctx context.Context, doc offerdoc.Document) (_ *offerdoc.Fragment, err error) {
	ctx, span := tracer.Start(ctx, "pipeline.process", trace.WithAttributes(
		attribute.String("offer.url", doc.URL()),
	))
	defer func() { end(span, err) }()

	next, err := p.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	prev, err := p.Store.FindFragmentByURL(ctx, next.URL)
	if offerdoc.ErrorCode(err) == offerdoc.ENOTFOUND {
		prev, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load previous state: %w", err)
	}

	merged, err := offerdoc.Merge(prev, next)
	if err != nil {
		return nil, err
	}
	if err := p.Store.SaveFragment(ctx, merged); err != nil {
		return nil, fmt.Errorf("save fragment: %w", err)
	}
	if p.Indexer != nil {
		if err := p.Indexer.IndexFragment(ctx, merged); err != nil {
			return nil, fmt.Errorf("index fragment: %w", err)
		}
	}
	return merged, nil
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
