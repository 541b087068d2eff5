package http

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/offerdoc"
	"golang.org/x/time/rate"
)

var _ offerdoc.DomainLimiter = (*MerchantLimiter)(nil)

// MerchantLimiter spaces requests to each merchant host with its own token
// bucket. Host names are folded by HostKey, so "www.Shop.example:443" and
// "shop.example" share one bucket. A non-positive rate disables limiting.
type MerchantLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rps     float64
}

// NewMerchantLimiter creates a MerchantLimiter allowing rps requests per
// second to each host, without bursts.
func NewMerchantLimiter(rps float64) *MerchantLimiter {
	return &MerchantLimiter{buckets: make(map[string]*rate.Limiter), rps: rps}
}

// LimiterFor returns a limiter using the datasource request rate, or
// fallback when the provider does not set one.
func LimiterFor(ds *offerdoc.DatasourceConfig, fallback float64) *MerchantLimiter {
	if ds != nil && ds.Provider.RequestsPerSecond > 0 {
		return NewMerchantLimiter(ds.Provider.RequestsPerSecond)
	}
	return NewMerchantLimiter(fallback)
}

// Wait blocks until a request to host is allowed.
func (l *MerchantLimiter) Wait(ctx context.Context, host string) error {
	if l.rps <= 0 {
		return ctx.Err()
	}
	key := HostKey(host)

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.Wait(ctx)
}

// HostKey folds a host name for rate limiting: lower case, without port and
// without a leading "www.".
func HostKey(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if name, _, err := net.SplitHostPort(h); err == nil {
		h = name
	}
	return strings.TrimPrefix(h, "www.")
}
