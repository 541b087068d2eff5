package mock

import (
	"context"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.FragmentStore = (*FragmentStore)(nil)

// FragmentStore is a mock implementation of offerdoc.FragmentStore.
type FragmentStore struct {
	FindFragmentByURLFn func(ctx context.Context, url string) (*offerdoc.Fragment, error)
	SaveFragmentFn      func(ctx context.Context, f *offerdoc.Fragment) error
	FindPriceHistoryFn  func(ctx context.Context, url string) ([]offerdoc.Price, error)
}

func (s *FragmentStore) FindFragmentByURL(ctx context.Context, url string) (*offerdoc.Fragment, error) {
	return s.FindFragmentByURLFn(ctx, url)
}

func (s *FragmentStore) SaveFragment(ctx context.Context, f *offerdoc.Fragment) error {
	return s.SaveFragmentFn(ctx, f)
}

func (s *FragmentStore) FindPriceHistory(ctx context.Context, url string) ([]offerdoc.Price, error) {
	return s.FindPriceHistoryFn(ctx, url)
}

var _ offerdoc.FragmentIndexer = (*FragmentIndexer)(nil)

// FragmentIndexer is a mock implementation of offerdoc.FragmentIndexer.
type FragmentIndexer struct {
	IndexFragmentFn func(ctx context.Context, f *offerdoc.Fragment) error
}

func (i *FragmentIndexer) IndexFragment(ctx context.Context, f *offerdoc.Fragment) error {
	return i.IndexFragmentFn(ctx, f)
}
