package main

import (
	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/config"
	"github.com/fwojciec/offerdoc/crawl"
	"github.com/fwojciec/offerdoc/extract"
	offerslog "github.com/fwojciec/offerdoc/slog"
)

// newPipeline loads the datasource configuration at path and builds its
// pipeline together with the fetcher for its pages.
func newPipeline(deps *Dependencies, path string) (*crawl.Pipeline, offerdoc.DocumentFetcher, error) {
	ds, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	fetcher := deps.FetcherFor(ds)

	env := extract.NewEnv(deps.Logger, deps.Converter)
	registry := extract.NewDefaultRegistry(env)
	crawl.RegisterDeep(registry, env, fetcher)

	p, err := crawl.NewPipeline(ds, offerslog.NewLoggingRegistry(registry, deps.Logger))
	if err != nil {
		return nil, nil, err
	}
	p.Store = deps.Store
	p.Indexer = deps.Indexer
	p.Logger = deps.Logger
	return p, fetcher, nil
}
