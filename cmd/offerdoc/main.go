package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/htmltomarkdown"
	offerhttp "github.com/fwojciec/offerdoc/http"
	offernats "github.com/fwojciec/offerdoc/nats"
	offerslog "github.com/fwojciec/offerdoc/slog"
	"github.com/fwojciec/offerdoc/sqlite"
	"github.com/nats-io/nats.go"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Requests per second allowed to each merchant host.
	RateLimit float64
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:    defaultDBPath(),
		RateLimit: 1.0,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("offerdoc"),
		kong.Description("Extract merchant offers from product pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'offerdoc --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := newLogger(stderr, cli.LogLevel)
	deps.Logger = logger

	if cmd == "operations" {
		return kongCtx.Run(deps)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set OFFERDOC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.Store = offerslog.NewLoggingFragmentStore(sqlite.NewFragmentService(m.DB), logger)
	deps.Converter = htmltomarkdown.NewConverter()
	deps.FetcherFor = func(ds *offerdoc.DatasourceConfig) offerdoc.DocumentFetcher {
		return offerslog.NewLoggingFetcher(offerhttp.NewFetcher(
			offerhttp.WithLimiter(offerhttp.LimiterFor(ds, m.RateLimit)),
			offerhttp.WithDelimiterTags(ds.DelimiterTags),
			offerhttp.WithLogger(logger),
		), logger)
	}

	if cli.Batch.NATS != "" && cmd != "history" {
		nc, err := nats.Connect(cli.Batch.NATS, nats.Name("offerdoc"))
		if err != nil {
			return fmt.Errorf("failed to connect to NATS at %q: %w", cli.Batch.NATS, err)
		}
		defer nc.Close()
		idx := offernats.NewIndexer(nc, offernats.WithSubject(cli.Batch.Subject))
		deps.Indexer = offerslog.NewLoggingIndexer(idx, logger)
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func defaultDBPath() string {
	if path := os.Getenv("OFFERDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "offerdoc.db"
	}
	dir := filepath.Join(home, ".offerdoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "offerdoc.db")
}
