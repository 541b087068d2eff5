// Package bloom deduplicates offer URLs with a Bloom filter.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter remembers which offer URLs were already scheduled. URLs that differ
// only by fragment or host case count as one. It is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a filter sized for n URLs at the given false positive
// rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Seen records rawURL and reports whether it was probably recorded before.
// A false positive makes a new URL look seen; a seen URL is never reported
// as new.
func (f *Filter) Seen(rawURL string) bool {
	key := Key(rawURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAddString(key)
}

// Contains reports whether rawURL was probably recorded, without
// recording it.
func (f *Filter) Contains(rawURL string) bool {
	key := Key(rawURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(key)
}

// EstimatedCount returns the approximate number of recorded URLs.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

// Key returns the form under which rawURL is recorded: trimmed, without
// fragment, with a lower-case scheme and host.
func Key(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil {
		if i := strings.Index(s, "#"); i >= 0 {
			s = s[:i]
		}
		return s
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
