package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/crawl"
)

const progressURLWidth = 60

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	if c.Stream && c.File == "" {
		err := offerdoc.Errorf(offerdoc.EINVALID, "--stream requires --file")
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
		return err
	}

	var urls []string
	if !c.Stream {
		var err error
		if urls, err = c.urls(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		if len(urls) == 0 {
			err := offerdoc.Errorf(offerdoc.EINVALID, "no URL given")
			fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
			return err
		}
	}

	p, fetcher, err := newPipeline(deps, c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
		return err
	}

	b := &crawl.Batch{Fetcher: fetcher, Pipeline: p, Concurrency: c.Concurrency}
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			if event.Total > 0 {
				fmt.Fprintf(deps.Stdout, "  Processing %d URLs\n", event.Total)
			} else {
				fmt.Fprintf(deps.Stdout, "  Processing URLs from %s\n", c.File)
			}
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%s] %s\n", counter(event), crawl.TruncateURL(event.URL, progressURLWidth))
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  duplicate %s\n", event.URL)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, offerdoc.ErrorMessage(event.Error))
		}
	}

	var result *crawl.Result
	if c.Stream {
		result, err = c.runStream(deps, b, progress)
	} else {
		result, err = b.Run(deps.Ctx, urls, progress)
	}
	if result != nil {
		fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatResult(result))
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: batch interrupted: %v\n", err)
		return err
	}
	return nil
}

func counter(event crawl.ProgressEvent) string {
	if event.Total > 0 {
		return fmt.Sprintf("%d/%d", event.Completed, event.Total)
	}
	return fmt.Sprintf("%d", event.Completed)
}

// runStream feeds the positional URLs, then the file lines, to the batch as
// they are read.
func (c *BatchCmd) runStream(deps *Dependencies, b *crawl.Batch, progress crawl.ProgressFunc) (*crawl.Result, error) {
	file, err := os.Open(c.File)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	feed := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(feed)
		send := func(u string) bool {
			select {
			case feed <- u:
				return true
			case <-deps.Ctx.Done():
				return false
			}
		}
		for _, u := range c.URLs {
			if !send(u) {
				readErr <- nil
				return
			}
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if !send(line) {
				break
			}
		}
		readErr <- scanner.Err()
	}()

	result, err := b.RunStream(deps.Ctx, feed, progress)
	if rerr := <-readErr; rerr != nil && err == nil {
		err = fmt.Errorf("read %s: %w", c.File, rerr)
	}
	return result, err
}

// urls returns the positional URLs followed by those of the file, if any.
// Blank lines and lines starting with # are ignored.
func (c *BatchCmd) urls() ([]string, error) {
	urls := append([]string(nil), c.URLs...)
	if c.File == "" {
		return urls, nil
	}
	file, err := os.Open(c.File)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
