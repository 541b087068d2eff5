package mock

import (
	"context"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of offerdoc.Extractor.
type Extractor struct {
	KindFn    func() string
	ExtractFn func(ctx context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error
}

func (e *Extractor) Kind() string {
	return e.KindFn()
}

func (e *Extractor) Extract(ctx context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error {
	return e.ExtractFn(ctx, doc, locale, f)
}
