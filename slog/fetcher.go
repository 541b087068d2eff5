// Package slog provides log/slog decorators for the offerdoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/offerdoc"
)

// Ensure LoggingFetcher implements offerdoc.DocumentFetcher.
var _ offerdoc.DocumentFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a DocumentFetcher with logging.
type LoggingFetcher struct {
	next   offerdoc.DocumentFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next offerdoc.DocumentFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchDocument delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) FetchDocument(ctx context.Context, url string) (doc offerdoc.Document, err error) {
	defer func(begin time.Time) {
		var kind offerdoc.DocumentKind
		if doc != nil {
			kind = doc.Kind()
		}
		f.logger.Info("fetch",
			"url", url,
			"kind", kind,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchDocument(ctx, url)
}
