package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/crawl"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	f, err := deps.Store.FindFragmentByURL(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
		return err
	}
	prices, err := deps.Store.FindPriceHistory(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
		return err
	}

	if f.Price != nil {
		fmt.Fprintf(deps.Stdout, "current  %s  %s\n", f.Price.Timestamp.Format(time.DateOnly), crawl.FormatPrice(*f.Price))
	}
	if len(prices) == 0 {
		fmt.Fprintln(deps.Stdout, "No previous prices.")
		return nil
	}
	for i := len(prices) - 1; i >= 0; i-- {
		fmt.Fprintf(deps.Stdout, "         %s  %s\n", prices[i].Timestamp.Format(time.DateOnly), crawl.FormatPrice(prices[i]))
	}
	return nil
}
