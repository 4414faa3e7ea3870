// Package main is the paperfeed CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wayfarer/paperfeed/internal/cli"
	"github.com/wayfarer/paperfeed/internal/config"
	"github.com/wayfarer/paperfeed/internal/export"
	"github.com/wayfarer/paperfeed/internal/feed"
	"github.com/wayfarer/paperfeed/internal/index"
	"github.com/wayfarer/paperfeed/internal/models"
	"github.com/wayfarer/paperfeed/internal/pipeline"
	"github.com/wayfarer/paperfeed/internal/scoring"
	"github.com/wayfarer/paperfeed/internal/storage"
	"github.com/wayfarer/paperfeed/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/paperfeed/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// A bare invocation performs one full pass, the intended cron target.
	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	switch command {
	case "run":
		runPass(argsAfterCommand())
	case "recent":
		runRecent()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("paperfeed version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// argsAfterCommand returns flag arguments for the active subcommand, handling
// the bare "paperfeed" invocation where no command word is present.
func argsAfterCommand() []string {
	if len(os.Args) > 1 {
		return os.Args[2:]
	}
	return nil
}

func runPass(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Int("feeds", len(cfg.Feeds)),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	model := scoring.NewModel(cfg.Scoring.PrimaryKeywords, cfg.Scoring.ContextKeywords, cfg.Scoring.MinScore)
	fetcher := feed.NewRSSFetcher(cfg.Fetch)

	opts := []pipeline.Option{}
	idx, err := index.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		// The store is the source of truth; run without search indexing.
		logger.Warn("search index unavailable", zap.Error(err))
	} else {
		defer idx.Close()
		opts = append(opts, pipeline.WithIndexer(idx))
	}

	driver := pipeline.NewDriver(cfg.Feeds, fetcher, model, store, logger, opts...)
	report, err := driver.Run(context.Background())
	if err != nil {
		logger.Fatal("Run aborted", zap.Error(err))
	}

	if err := export.WriteFile(cfg.Export.Path, report); err != nil {
		logger.Fatal("Failed to write export artifact", zap.Error(err))
	}
	logger.Info("export written", zap.String("path", cfg.Export.Path))

	cli.WriteReport(os.Stdout, report)
}

func runRecent() {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "maximum number of articles")
	minScore := fs.Int("min-score", 0, "minimum relevance score filter")
	since := fs.Duration("since", 0, "only articles fetched within this window (e.g. 168h)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	opts := storage.QueryOptions{MinScore: *minScore, Limit: *limit}
	if *since > 0 {
		opts.Since = time.Now().Add(-*since)
	}
	articles, err := store.Query(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteArticles(os.Stdout, articles, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 10, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	// Join all positional args so multi-word queries work with or without quotes.
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: paperfeed search [flags] <query>")
		os.Exit(1)
	}

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	idx, err := index.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open search index: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()

	hits, err := idx.Search(query, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	// Hydrate hits from the store, preserving Bleve's ranking.
	all, err := store.Query(context.Background(), storage.QueryOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	byGUID := make(map[string]*models.Article, len(all))
	for _, a := range all {
		byGUID[a.GUID] = a
	}
	var articles []*models.Article
	for _, hit := range hits {
		if a, ok := byGUID[hit.GUID]; ok {
			articles = append(articles, a)
		}
	}
	if err := cli.WriteArticles(os.Stdout, articles, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	count, err := store.Count(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("articles:         %d\n", count)
	fmt.Printf("feeds:            %d\n", len(cfg.Feeds))
	fmt.Printf("min_score:        %d\n", cfg.Scoring.MinScore)
	fmt.Printf("config_path:      %s\n", resolvedConfigPath)
	fmt.Printf("database_path:    %s\n", cfg.Storage.DatabasePath)
	fmt.Printf("bleve_index_path: %s\n", cfg.Storage.BleveIndexPath)
	fmt.Printf("export_path:      %s\n", cfg.Export.Path)
}

func printUsage() {
	fmt.Println(`paperfeed - keyword-scored academic RSS feed aggregator

Usage:
  paperfeed [run] [flags]          Fetch, score, and store one pass over all feeds
  paperfeed recent [flags]         List recently stored articles
  paperfeed search [flags] <query> Full-text search over stored articles
  paperfeed status [flags]         Show store and config status
  paperfeed version                Show version
  paperfeed help                   Show this help

Run Flags:
  --config string    Config file path (default: /usr/local/etc/paperfeed/config.yaml)
  --debug            Enable debug logging

Recent Flags:
  --config string    Config file path
  --limit int        Maximum number of articles (default: 20)
  --min-score int    Minimum relevance score filter
  --since duration   Only articles fetched within this window (e.g. 168h)
  --output string    Output format: text or json (default: text)

Search Flags:
  --config string    Config file path
  --limit int        Number of results (default: 10)
  --output string    Output format: text or json (default: text)

Examples:
  paperfeed
  paperfeed run --debug
  paperfeed recent --min-score 5 --since 168h
  paperfeed search "machine learning"
  paperfeed status`)
}
