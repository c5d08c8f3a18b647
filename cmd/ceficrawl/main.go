package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/noaa-psl/cefidata/crawl"
	"github.com/noaa-psl/cefidata/etree"
	"github.com/noaa-psl/cefidata/fs"
	cefihttp "github.com/noaa-psl/cefidata/http"
	cefislog "github.com/noaa-psl/cefidata/slog"
	"github.com/noaa-psl/cefidata/sqlite"
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
	// SQLite database opened when crawl runs are recorded.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
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
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ceficrawl"),
		kong.Description("Crawl the CEFI THREDDS catalog tree into a JSON index"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{
			"defaultBase": crawl.DefaultCatalogBase,
			"defaultOut":  fs.DefaultIndexFile,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Wire dependencies
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	crawler := &crawl.Crawler{
		Fetcher: cefihttp.NewFetcher(cefihttp.WithTimeout(cli.Timeout)),
		Parser:  etree.NewParser(),
		Logger:  logger,
	}
	if cli.Rate > 0 {
		crawler.Limiter = crawl.NewHostLimiter(cli.Rate)
	}
	deps.Crawler = cefislog.NewLoggingCatalogCrawler(crawler, logger)

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Store = sqlite.NewCatalogService(m.DB)
	}

	cmd := &CrawlCmd{
		Base: cli.Base,
		Out:  cli.Out,
	}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Base    string        `short:"b" default:"${defaultBase}" help:"Root THREDDS catalog URL to crawl"`
	Out     string        `short:"o" default:"${defaultOut}" help:"Output path for the JSON index"`
	Timeout time.Duration `short:"t" default:"10s" help:"Fetch timeout per catalog"`
	Rate    float64       `short:"r" default:"2" help:"Requests per second per host (0 disables throttling)"`
	DB      string        `name:"db" help:"Record the crawl run in this SQLite database"`
	Quiet   bool          `short:"q" help:"Log warnings and errors only"`
}
