package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/Marlup/gcloud-instruction-generator/crawl"
	"github.com/Marlup/gcloud-instruction-generator/fs"
	"github.com/Marlup/gcloud-instruction-generator/goquery"
	"github.com/Marlup/gcloud-instruction-generator/htmltomarkdown"
	igenhttp "github.com/Marlup/gcloud-instruction-generator/http"
	igenslog "github.com/Marlup/gcloud-instruction-generator/slog"
	"github.com/Marlup/gcloud-instruction-generator/sqlite"
	"github.com/Marlup/gcloud-instruction-generator/zstd"
	"github.com/alecthomas/kong"
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
	// SQLite database used by the signature history. Opened only for
	// commands that need it.
	DB *sqlite.DB

	// ConfigPaths are the JSON configuration files consulted for flag
	// defaults, in order.
	ConfigPaths []string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{"~/.config/igen/config.json", ".igen.json"},
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
		kong.Name("igen"),
		kong.Description("Crawl the gcloud reference into a command knowledge base and build commands from it."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Configuration(kong.JSON, m.ConfigPaths...),
		kong.Vars{
			"default_db":       defaultDBPath(),
			"default_base_url": crawl.DefaultBaseURL,
			"default_depth":    fmt.Sprint(crawl.DefaultMaxDepth),
			"default_workers":  fmt.Sprint(crawl.DefaultConcurrency),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'igen --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	deps.Loader = fs.NewLoader(cli.CatalogDir)
	deps.Loader.OnSkip = func(path string, err error) {
		fmt.Fprintf(stderr, "  skip %s: %v\n", path, err)
	}
	deps.Catalogs = deps.Loader
	if deps.Logger != nil {
		deps.Catalogs = igenslog.NewLoggingCatalogLoader(deps.Loader, deps.Logger)
	}
	deps.Writer = fs.NewWriter(cli.CatalogDir)
	deps.Exporter = deps.Writer
	deps.Defaults = cli.Defaults

	if cmd == "crawl" || cmd == "history" {
		if err := os.MkdirAll(filepath.Dir(cli.DB), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set IGEN_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()

		deps.Signatures = sqlite.NewSignatureService(m.DB)
		if deps.Logger != nil {
			deps.Signatures = igenslog.NewLoggingSignatureService(deps.Signatures, deps.Logger)
		}
	}

	if cmd == "crawl" {
		var fetcher igen.Fetcher = igenhttp.NewFetcher(igenhttp.WithTimeout(cli.Crawl.Timeout))
		if deps.Logger != nil {
			fetcher = igenslog.NewLoggingFetcher(fetcher, deps.Logger)
		}
		if cli.Crawl.CacheDir != "" {
			cache, err := zstd.NewCachingFetcher(fetcher, cli.Crawl.CacheDir, cli.Crawl.CacheTTL)
			if err != nil {
				return fmt.Errorf("failed to open page cache: %w", err)
			}
			cache.OnError = func(url string, err error) {
				fmt.Fprintf(stderr, "  cache %s: %v\n", url, err)
			}
			fetcher = cache
		}
		defer fetcher.Close()

		var opts []goquery.Option
		if cli.Crawl.Markdown {
			conv := htmltomarkdown.NewConverter()
			conv.Domain = origin(cli.Crawl.BaseURL)
			opts = append(opts, goquery.WithConverter(conv))
		}

		deps.Crawler = &crawl.Crawler{
			Fetcher:     fetcher,
			Extractor:   goquery.NewExtractor(opts...),
			Writer:      deps.Writer,
			RateLimiter: crawl.NewDomainLimiter(cli.Crawl.RPS),
			Signatures:  deps.Signatures,
			Runs:        sqlite.NewCrawlRunService(m.DB),
			BaseURL:     cli.Crawl.BaseURL,
			Logf: func(format string, args ...any) {
				fmt.Fprintf(stderr, "  "+format+"\n", args...)
			},
		}
	}

	return kongCtx.Run(deps)
}

// origin returns the scheme and host of rawURL, used to resolve relative
// links in rendered descriptions.
func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "igen.db"
	}
	return filepath.Join(home, ".igen", "igen.db")
}
