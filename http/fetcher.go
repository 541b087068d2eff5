// Package http implements offerdoc.DocumentFetcher over plain HTTP.
// Responses are parsed as JSON when the server says so, and as HTML
// otherwise.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/etree"
	"github.com/fwojciec/offerdoc/json5"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// maxBodySize bounds how much of a response is read.
const maxBodySize = 16 << 20

// Ensure Fetcher implements offerdoc.DocumentFetcher at compile time.
var _ offerdoc.DocumentFetcher = (*Fetcher)(nil)

// Fetcher retrieves merchant pages and feeds and parses them into
// documents. It does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	delays    []time.Duration
	limiter   offerdoc.DomainLimiter
	userAgent string
	opts      etree.Options
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout of a single request.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetryDelays sets the delays between attempts. An empty list disables
// retries. Defaults to DefaultRetryDelays.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.delays = delays
	}
}

// WithLimiter rate limits requests per host.
func WithLimiter(l offerdoc.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithDelimiterTags sets the tags at which HTML text is split into lines.
func WithDelimiterTags(tags []string) Option {
	return func(f *Fetcher) {
		f.opts.DelimiterTags = tags
	}
}

// WithLogger reports retries to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		delays:    DefaultRetryDelays(),
		userAgent: "offerdoc/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// response is a successfully read HTTP body.
type response struct {
	body        []byte
	contentType string
}

// FetchDocument retrieves the page at rawURL, retrying transient failures,
// and parses it.
// Returns EFETCH if the page cannot be retrieved or parsed.
func (f *Fetcher) FetchDocument(ctx context.Context, rawURL string) (offerdoc.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, offerdoc.Errorf(offerdoc.EFETCH, "invalid url %q", rawURL)
	}

	resp, err := retry(ctx, f.delays, func(ctx context.Context) (response, error) {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, u.Host); err != nil {
				return response{}, err
			}
		}
		return f.get(ctx, rawURL)
	}, func(n int, err error) {
		if f.logger != nil {
			f.logger.Debug("retry", "url", rawURL, "attempt", n, "err", err)
		}
	})
	if err != nil {
		return nil, offerdoc.Errorf(offerdoc.EFETCH, "fetch %s: %v", rawURL, err)
	}

	doc, err := f.parse(rawURL, resp)
	if err != nil {
		return nil, offerdoc.Errorf(offerdoc.EFETCH, "parse %s: %s", rawURL, offerdoc.ErrorMessage(err))
	}
	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return response{}, offerdoc.Errorf(offerdoc.EINVALID, "build request: %v", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return response{}, offerdoc.Errorf(offerdoc.ENOTFOUND, "HTTP %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return response{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return response{}, err
	}
	return response{body: body, contentType: resp.Header.Get("Content-Type")}, nil
}

func (f *Fetcher) parse(rawURL string, resp response) (offerdoc.Document, error) {
	if isJSON(resp) {
		return json5.Parse(rawURL, resp.body)
	}
	return etree.Parse(bytes.NewReader(resp.body), resp.contentType, rawURL, f.opts)
}

// isJSON reports whether a response holds JSON: by media type, or by its
// first byte when the server sends no media type.
func isJSON(resp response) bool {
	ct := strings.ToLower(resp.contentType)
	if strings.Contains(ct, "json") {
		return true
	}
	if ct != "" && !strings.HasPrefix(ct, "text/plain") {
		return false
	}
	trimmed := bytes.TrimSpace(resp.body)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
