package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/noaa-psl/cefidata"
	"github.com/noaa-psl/cefidata/fs"
	cefihttp "github.com/noaa-psl/cefidata/http"
	cefimcp "github.com/noaa-psl/cefidata/mcp"
	"github.com/noaa-psl/cefidata/netcdf"
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
	// Database path. Set before calling Run().
	DBPath string

	// Request stream served over MCP. Defaults to os.Stdin.
	Stdin io.Reader

	// SQLite database backing the catalog tool.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments. Logging goes to stderr;
// stdout carries the MCP transport.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("cefidata"),
		kong.Description("Serve the CEFI data catalog tools over the Model Context Protocol"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"defaultTreeURL": cefihttp.DefaultTreeURL},
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

	// Option tree navigation. The tree loads at most once per process:
	// a failed preload is logged, and the tools report the data as
	// unavailable for the process lifetime.
	client := &http.Client{Timeout: cli.Timeout}
	trees := cefidata.NewTreeCache(
		cefislog.NewLoggingTreeService(cefihttp.NewTreeService(client, cli.TreeURL), logger),
	)
	nav := cefidata.NewNavigator(trees)
	if _, err := trees.Load(ctx); err != nil {
		logger.Warn("option tree preload failed", "url", cli.TreeURL, "err", err)
	}

	// Dataset metadata access.
	datasets := cefislog.NewLoggingDatasetService(
		netcdf.NewService(cefihttp.NewFetcher(cefihttp.WithTimeout(cli.Timeout))),
		logger,
	)

	// Catalog index source: the crawler's JSON output file when given,
	// otherwise the sqlite store.
	var catalogs cefimcp.IndexSource
	if cli.CatalogIndex != "" {
		catalogs = fs.NewIndexFile(cli.CatalogIndex)
	} else {
		dbPath := cli.DB
		if dbPath == "" {
			dbPath = m.DBPath
		}
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CEFIDATA_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()
		catalogs = sqlite.NewCatalogService(m.DB)
	}

	stdin := m.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	logger.Info("serving MCP", "server", cefimcp.ServerName, "version", cefimcp.ServerVersion)
	srv := cefimcp.NewServer(nav, datasets, catalogs)
	return srv.Listen(ctx, stdin, stdout)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	TreeURL      string        `name:"tree-url" default:"${defaultTreeURL}" help:"URL of the CEFI data option tree"`
	Timeout      time.Duration `short:"t" default:"10s" help:"HTTP timeout for tree and metadata requests"`
	DB           string        `name:"db" help:"SQLite database path for the catalog tool (default: $CEFIDATA_DB or ~/.cefidata/cefidata.db)"`
	CatalogIndex string        `name:"catalog-index" help:"Read the catalog tool's index from a crawler JSON file instead of the database"`
	Quiet        bool          `short:"q" help:"Log warnings and errors only"`
}

func defaultDBPath() string {
	if path := os.Getenv("CEFIDATA_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "cefidata.db"
	}
	dir := filepath.Join(home, ".cefidata")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cefidata.db")
}
