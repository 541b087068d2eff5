package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/offerdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// FetcherFor returns the fetcher used for pages of ds. Markup parsing
	// depends on the datasource delimiter tags.
	FetcherFor func(ds *offerdoc.DatasourceConfig) offerdoc.DocumentFetcher

	Store     offerdoc.FragmentStore
	Indexer   offerdoc.FragmentIndexer
	Converter offerdoc.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`

	Extract    ExtractCmd    `cmd:"" help:"Extract the offer of one page"`
	Batch      BatchCmd      `cmd:"" help:"Extract, merge and store the offers of many pages"`
	History    HistoryCmd    `cmd:"" help:"Show the stored price history of an offer"`
	Operations OperationsCmd `cmd:"" help:"List the operations usable in extraction paths"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Config string `arg:"" help:"Datasource configuration file (.yaml, .yml, .json, .json5)"`
	URL    string `arg:"" help:"Offer page URL"`
	Save   bool   `short:"s" help:"Merge with the stored offer and save the result"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Config      string   `arg:"" help:"Datasource configuration file (.yaml, .yml, .json, .json5)"`
	URLs        []string `arg:"" optional:"" name:"url" help:"Offer page URLs"`
	File        string   `short:"f" help:"Read offer page URLs from a file, one per line"`
	Stream      bool     `help:"Process file URLs while reading instead of loading the whole list first"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent page limit"`
	NATS        string   `name:"nats" env:"OFFERDOC_NATS_URL" help:"NATS server URL; merged offers are published when set"`
	Subject     string   `default:"offerdoc.fragments" help:"NATS subject prefix"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL string `arg:"" help:"Offer page URL"`
}

// OperationsCmd is the "operations" subcommand.
type OperationsCmd struct{}
