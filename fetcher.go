package offerdoc

import "context"

// DocumentFetcher retrieves and parses the page at a URL. It is the "fetch
// again" capability handed to multi-page extraction.
type DocumentFetcher interface {
	// FetchDocument returns the parsed document at url.
	// Returns EFETCH if the page could not be retrieved.
	FetchDocument(ctx context.Context, url string) (Document, error)
}

// DomainLimiter provides per-domain rate limiting so merchants are not
// hammered by concurrent batches.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled while waiting.
	Wait(ctx context.Context, domain string) error
}
