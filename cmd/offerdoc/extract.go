package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/offerdoc"
)

// Run executes the extract command. The fragment is printed as JSON even
// when it fails validation, so the configuration can be debugged.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	p, fetcher, err := newPipeline(deps, c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
		return err
	}

	doc, err := fetcher.FetchDocument(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
		return err
	}

	var f *offerdoc.Fragment
	if c.Save {
		f, err = p.Process(deps.Ctx, doc)
	} else {
		f, err = p.Extract(deps.Ctx, doc)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
	}
	if f == nil {
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(f); encErr != nil {
		return encErr
	}
	return err
}
