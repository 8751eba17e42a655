package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/adapter/source/dummyjson"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	configFile string
	ephemeral  bool
	clearCache bool
	refresh    bool
	list       bool
	search     string
	category   string
}

func main() {
	var opts options
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configFile, "config", "", "config file (default ~/.config/shelf/config.yaml)")
	flag.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the cache in memory only")
	flag.BoolVar(&opts.clearCache, "clear-cache", false, "delete the local cache and exit")
	flag.BoolVar(&opts.refresh, "refresh", false, "download the whole catalog into the cache and exit")
	flag.BoolVar(&opts.list, "list", false, "print the catalog as plain text instead of starting the UI")
	flag.StringVar(&opts.search, "search", "", "with --list, print products matching this title search")
	flag.StringVar(&opts.category, "category", "", "with --list, print products in this category")
	flag.Parse()

	if showVersion {
		fmt.Printf("shelf %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog := adapter.StartLogger(&cfg.Logging, os.Stderr)
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting shelf", "version", Version)

	if opts.clearCache {
		if err := adapter.ClearCache(cfg); err != nil {
			return err
		}
		fmt.Printf("Cleared cache at %s\n", cfg.Store.Path)
		return nil
	}

	driver := cfg.Store.Driver
	if opts.ephemeral {
		driver = store.DriverMemory
	}
	st, err := store.Open(driver, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer st.Close()

	client := dummyjson.NewClient(cfg.Server.BaseURL, dummyjson.Options{
		Timeout: cfg.Server.Timeout,
		Retries: cfg.Server.Retries,
	}, logger)
	defer client.Close()

	svc := catalog.NewService(client, st, cfg.Server.PageSize, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case opts.refresh:
		return refreshWithProgress(ctx, svc)
	case opts.list || !term.IsTerminal(int(os.Stdout.Fd())):
		return printCatalog(ctx, svc, listQuery(opts, cfg.Server.PageSize), os.Stdout, os.Stderr)
	}

	// Run the TUI
	launcher := adapter.NewLauncher(cfg.Viewer, logger)
	model := tui.NewModel(svc, cfg.Server.PageSize, cfg.UI.SearchDebounce, launcher, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
