// Package crawl runs extraction pipelines over offer pages: the ordered
// extractor run with validation, merge and hand-off, the deep sub-page
// walk, and a concurrent batch runner.
package crawl

import (
	"context"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/bloom"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4

	// Sizing of the Bloom filter deduplicating streamed URLs.
	defaultStreamCapacity   = 100_000
	streamFalsePositiveRate = 0.001
)

// Batch fetches and processes many offer pages concurrently. Pages are
// independent; each one goes through the pipeline on its own.
type Batch struct {
	Fetcher     offerdoc.DocumentFetcher
	Pipeline    *Pipeline
	Concurrency int

	// StreamCapacity is the expected number of distinct URLs of a stream.
	// The deduplication filter of RunStream is sized for it.
	StreamCapacity uint
}

// Result holds the outcome of a batch.
type Result struct {
	Processed int
	Evicted   int
	Invalid   int
	Failed    int
	Skipped   int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

type pageResult struct {
	url     string
	err     error
	skipped bool
}

// Run processes urls. URLs equal under bloom.Key are processed once; the
// duplicates are counted as skipped. Per-page failures are counted and
// reported, never returned; the error is non-nil only when ctx ends the
// batch.
func (b *Batch) Run(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	var skipped int
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		key := bloom.Key(u)
		if _, ok := seen[key]; ok {
			skipped++
			progress(ProgressEvent{Type: ProgressSkipped, URL: u})
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, u)
	}

	feed := make(chan string, len(unique))
	for _, u := range unique {
		feed <- u
	}
	close(feed)

	result, err := b.execute(ctx, feed, nil, len(unique), progress)
	result.Skipped += skipped
	return result, err
}

// RunStream processes URLs as they arrive on urls until the channel is
// closed or ctx ends. The stream is unbounded, so duplicates are detected
// with a Bloom filter: a false positive skips a distinct page. Events carry
// a zero Total.
func (b *Batch) RunStream(ctx context.Context, urls <-chan string, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	capacity := b.StreamCapacity
	if capacity == 0 {
		capacity = defaultStreamCapacity
	}
	seen := bloom.NewFilter(capacity, streamFalsePositiveRate)
	return b.execute(ctx, urls, seen.Seen, 0, progress)
}

// execute processes the URLs of feed with bounded concurrency. When seen is
// set, URLs it reports as already seen are skipped.
func (b *Batch) execute(ctx context.Context, feed <-chan string, seen func(string) bool, total int, progress ProgressFunc) (*Result, error) {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan pageResult, concurrency)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		defer close(resultCh)
		defer func() { _ = g.Wait() }()
		for {
			var u string
			var ok bool
			select {
			case u, ok = <-feed:
			case <-ctx.Done():
				// Drain what is already queued so each URL is accounted for.
				select {
				case u, ok = <-feed:
				default:
					return
				}
			}
			if !ok {
				return
			}
			if seen != nil && seen(u) {
				resultCh <- pageResult{url: u, skipped: true}
				continue
			}
			g.Go(func() error {
				resultCh <- pageResult{url: u, err: b.process(gctx, u)}
				return nil
			})
		}
	}()

	var result Result
	var completed int
	for r := range resultCh {
		if r.skipped {
			result.Skipped++
			progress(ProgressEvent{Type: ProgressSkipped, URL: r.url})
			continue
		}
		completed++
		switch offerdoc.ErrorCode(r.err) {
		case "":
			result.Processed++
		case offerdoc.EEVICTED:
			result.Evicted++
		case offerdoc.EFRAGMENT:
			result.Invalid++
		default:
			result.Failed++
		}
		if r.err != nil && offerdoc.ErrorCode(r.err) != offerdoc.EEVICTED {
			progress(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: r.url, Error: r.err})
			continue
		}
		progress(ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: r.url})
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	if err := ctx.Err(); err != nil {
		return &result, err
	}
	return &result, nil
}

func (b *Batch) process(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := b.Fetcher.FetchDocument(ctx, url)
	if err != nil {
		return err
	}
	_, err = b.Pipeline.Process(ctx, doc)
	return err
}
