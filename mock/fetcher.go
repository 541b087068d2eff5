package mock

import (
	"context"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.DocumentFetcher = (*DocumentFetcher)(nil)

// DocumentFetcher is a mock implementation of offerdoc.DocumentFetcher.
type DocumentFetcher struct {
	FetchDocumentFn func(ctx context.Context, url string) (offerdoc.Document, error)
}

func (f *DocumentFetcher) FetchDocument(ctx context.Context, url string) (offerdoc.Document, error) {
	return f.FetchDocumentFn(ctx, url)
}
