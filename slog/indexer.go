package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/offerdoc"
)

// Ensure LoggingIndexer implements offerdoc.FragmentIndexer.
var _ offerdoc.FragmentIndexer = (*LoggingIndexer)(nil)

// LoggingIndexer wraps a FragmentIndexer with logging.
type LoggingIndexer struct {
	next   offerdoc.FragmentIndexer
	logger *slog.Logger
}

// NewLoggingIndexer creates a new LoggingIndexer.
func NewLoggingIndexer(next offerdoc.FragmentIndexer, logger *slog.Logger) *LoggingIndexer {
	return &LoggingIndexer{next: next, logger: logger}
}

// IndexFragment delegates to the wrapped indexer and logs the operation.
func (i *LoggingIndexer) IndexFragment(ctx context.Context, f *offerdoc.Fragment) (err error) {
	defer func(begin time.Time) {
		i.logger.Info("index fragment",
			"url", f.URL,
			"datasource", f.DatasourceName,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.IndexFragment(ctx, f)
}
