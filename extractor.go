package offerdoc

import "context"

// Extractor reads one family of facts from a document into a fragment.
type Extractor interface {
	// Kind returns the configuration kind the extractor was built from.
	Kind() string

	// Extract mutates f with what it finds in doc. Missing optional values
	// are logged, never returned. Returns EEVICTED when the page must be
	// dropped and no further extractor may run.
	Extract(ctx context.Context, doc Document, locale string, f *Fragment) error
}

// ExtractorFactory builds an extractor from its configuration entry.
// Returns ECONFIG if the entry is unusable.
type ExtractorFactory func(cfg ExtractorConfig, ds *DatasourceConfig) (Extractor, error)

// ExtractorRegistry maps configuration kinds to extractor factories.
type ExtractorRegistry interface {
	// Register associates kind with factory, replacing any previous one.
	Register(kind string, factory ExtractorFactory)

	// Kinds returns the registered kinds, sorted.
	Kinds() []string

	// Build returns the extractors of a datasource in configured order.
	// Returns ECONFIG for an unknown kind or an invalid entry.
	Build(ds *DatasourceConfig) ([]Extractor, error)
}
