package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marco/movieBrowser/internal/catalog"
	"github.com/marco/movieBrowser/internal/config"
	"github.com/marco/movieBrowser/internal/store"
	"github.com/marco/movieBrowser/internal/ui"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "Path to configuration file")
	logPath    = flag.String("log", "./data/browser.log", "Log file (the terminal belongs to the UI)")
	noWatch    = flag.Bool("no-watch", false, "Do not reload the configuration file when it changes")
	verbose    = flag.Bool("verbose", false, "Show detailed logging")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run owns every resource so deferred cleanup happens before the exit code is returned
func run() int {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	logFile, err := openLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		return 1
	}
	defer logFile.Close()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	client := catalog.NewClientWithConfig(catalog.ClientConfig{
		APIKey:       cfg.TMDB.APIKey,
		Language:     cfg.TMDB.Language,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Logger:       logger,
	})

	ctx := context.Background()
	opts := ui.Options{
		Categories:   cfg.Browse.Categories,
		ItemWidth:    cfg.Browse.ItemWidth,
		Clamp:        cfg.ClampPolicy(),
		SortKey:      cfg.DefaultSort(),
		Theme:        cfg.Theme(),
		DefaultSort:  cfg.DefaultSort(),
		DefaultTheme: cfg.Theme(),
		Workers:      cfg.Browse.Workers,
		Logger:       logger,
	}

	// browsing works without a store, only reactions and remembered choices are lost
	var prefs ui.Preferences
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Error("preference store unavailable", "path", cfg.Store.Path, "error", err)
	} else {
		defer st.Close()
		prefs = st
		if opts.Theme, err = st.Theme(ctx, opts.Theme); err != nil {
			logger.Warn("failed to read theme", "error", err)
		}
		if opts.SortKey, err = st.SortKey(ctx, opts.SortKey); err != nil {
			logger.Warn("failed to read sort key", "error", err)
		}
	}

	p := tea.NewProgram(ui.NewModel(client, prefs, opts), tea.WithAltScreen())

	if !*noWatch {
		w, err := config.NewWatcher(*configPath, config.DefaultDebounce, logger, func(next *config.Config) {
			logger.Info("configuration reloaded", "theme", next.Browse.Theme, "default_sort", next.Browse.DefaultSort)
			p.Send(ui.SettingsMsg{Theme: next.Theme(), SortKey: next.DefaultSort()})
		})
		if err != nil {
			logger.Warn("config watcher unavailable", "error", err)
		} else {
			defer w.Stop()
			if err := w.Start(); err != nil {
				logger.Warn("config watcher unavailable", "error", err)
			}
		}
	}

	logger.Info("browser started", "categories", cfg.Browse.Categories, "store", cfg.Store.Path)
	if _, err := p.Run(); err != nil {
		logger.Error("browser exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
		return 1
	}
	return 0
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
