package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/offerdoc"
)

// Ensure LoggingFragmentStore implements offerdoc.FragmentStore.
var _ offerdoc.FragmentStore = (*LoggingFragmentStore)(nil)

// LoggingFragmentStore wraps a FragmentStore with debug logging.
type LoggingFragmentStore struct {
	next   offerdoc.FragmentStore
	logger *slog.Logger
}

// NewLoggingFragmentStore creates a new LoggingFragmentStore.
func NewLoggingFragmentStore(next offerdoc.FragmentStore, logger *slog.Logger) *LoggingFragmentStore {
	return &LoggingFragmentStore{next: next, logger: logger}
}

// FindFragmentByURL delegates to the wrapped store and logs the operation.
func (s *LoggingFragmentStore) FindFragmentByURL(ctx context.Context, url string) (f *offerdoc.Fragment, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find fragment",
			"url", url,
			"found", f != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindFragmentByURL(ctx, url)
}

// SaveFragment delegates to the wrapped store and logs the operation.
func (s *LoggingFragmentStore) SaveFragment(ctx context.Context, f *offerdoc.Fragment) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save fragment",
			"url", f.URL,
			"datasource", f.DatasourceName,
			"history", len(f.PriceHistory),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveFragment(ctx, f)
}

// FindPriceHistory delegates to the wrapped store and logs the operation.
func (s *LoggingFragmentStore) FindPriceHistory(ctx context.Context, url string) (prices []offerdoc.Price, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find price history",
			"url", url,
			"count", len(prices),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPriceHistory(ctx, url)
}
