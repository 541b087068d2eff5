package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/offerdoc"
)

// Ensure LoggingRegistry implements offerdoc.ExtractorRegistry.
var _ offerdoc.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an ExtractorRegistry with logging of datasource builds.
type LoggingRegistry struct {
	next   offerdoc.ExtractorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next offerdoc.ExtractorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(kind string, factory offerdoc.ExtractorFactory) {
	r.next.Register(kind, factory)
}

// Kinds delegates to the wrapped registry.
func (r *LoggingRegistry) Kinds() []string {
	return r.next.Kinds()
}

// Build delegates to the wrapped registry and logs the extractor kinds built.
func (r *LoggingRegistry) Build(ds *offerdoc.DatasourceConfig) (extractors []offerdoc.Extractor, err error) {
	defer func(begin time.Time) {
		kinds := make([]string, 0, len(extractors))
		for _, x := range extractors {
			kinds = append(kinds, x.Kind())
		}
		r.logger.Info("build extractors",
			"datasource", ds.Name,
			"kinds", kinds,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Build(ds)
}
