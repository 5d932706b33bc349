package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/Marlup/gcloud-instruction-generator/crawl"
	"github.com/Marlup/gcloud-instruction-generator/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Logger is nil unless --verbose is set.
	Logger *slog.Logger

	Loader     *fs.Loader
	Catalogs   igen.CatalogLoader
	Writer     *fs.Writer
	Exporter   igen.CatalogWriter
	Signatures igen.SignatureService
	Crawler    *crawl.Crawler

	// Defaults are parameter values applied when build is not given one.
	Defaults map[string]string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	CatalogDir string            `name:"catalog-dir" short:"C" env:"IGEN_CATALOG_DIR" default:"catalog" type:"path" help:"Catalog directory"`
	DB         string            `name:"db" env:"IGEN_DB" default:"${default_db}" type:"path" help:"Signature history database"`
	Defaults   map[string]string `name:"default" short:"D" env:"IGEN_DEFAULTS" help:"Default parameter value, e.g. project=my-project (repeatable)"`
	Verbose    bool              `short:"v" help:"Log fetches, loads and signature changes to stderr"`

	Crawl     CrawlCmd     `cmd:"" help:"Crawl the gcloud reference into the catalog directory"`
	Export    ExportCmd    `cmd:"" help:"Derive action catalogs from crawled command trees"`
	Normalize NormalizeCmd `cmd:"" help:"Split flat actions.json documents into category leaves"`
	Actions   ActionsCmd   `cmd:"" help:"List the actions of a service"`
	Show      ShowCmd      `cmd:"" help:"Show the definition of an action"`
	Build     BuildCmd     `cmd:"" help:"Build a command line from an action"`
	History   HistoryCmd   `cmd:"" help:"Show the signature history of a command path"`
	Flags     FlagsCmd     `cmd:"" help:"List the CLI-wide flags stored by a full crawl"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Mode        string        `arg:"" enum:"single,partial,full" help:"Update mode: single, partial or full"`
	Targets     []string      `arg:"" optional:"" help:"Root command names (single and partial modes)"`
	Depth       int           `short:"d" default:"${default_depth}" help:"Link levels expanded below each root"`
	Concurrency int           `short:"c" default:"${default_workers}" help:"Concurrent fetch limit"`
	RPS         float64       `name:"rps" default:"2" help:"Requests per second per host (0 for unlimited)"`
	Timeout     time.Duration `default:"10s" help:"Per-request timeout"`
	BaseURL     string        `name:"base-url" env:"IGEN_BASE_URL" default:"${default_base_url}" help:"Reference index URL"`
	Markdown    bool          `default:"true" negatable:"" help:"Render descriptions as Markdown"`
	CacheDir    string        `name:"cache-dir" env:"IGEN_CACHE_DIR" type:"path" help:"Cache fetched pages in this directory (disabled when empty)"`
	CacheTTL    time.Duration `name:"cache-ttl" default:"24h" help:"Age after which cached pages are fetched again (0 never expires)"`
	DryRun      bool          `name:"dry-run" help:"Print the roots that would be crawled and stop (full mode still reads the index page)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Services []string `arg:"" help:"Crawled root names to export"`
	Binary   string   `default:"gcloud" help:"Binary name prefixed to every command template"`
}

// NormalizeCmd is the "normalize" subcommand.
type NormalizeCmd struct {
	Services []string `arg:"" optional:"" help:"Services to normalize (default: every service with a flat document)"`
}

// ActionsCmd is the "actions" subcommand.
type ActionsCmd struct {
	Service string `arg:"" help:"Service name"`
	Flat    bool   `help:"Read the legacy flat actions.json document"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Service  string `arg:"" help:"Service name"`
	Resource string `arg:"" help:"Resource name"`
	Category string `arg:"" help:"Category name"`
	Action   string `arg:"" help:"Action name"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Service  string   `arg:"" help:"Service name"`
	Resource string   `arg:"" help:"Resource name"`
	Category string   `arg:"" help:"Category name"`
	Action   string   `arg:"" help:"Action name"`
	Params   []string `arg:"" optional:"" help:"Parameter values as name=value"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Path  []string `arg:"" help:"Command path, e.g. pubsub topics"`
	Limit int      `short:"n" default:"10" help:"Maximum number of records"`
}

// FlagsCmd is the "flags" subcommand.
type FlagsCmd struct {
	Kind string `arg:"" enum:"global,other" help:"Flag document: global or other"`
}
