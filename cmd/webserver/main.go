package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marco/movieBrowser/internal/catalog"
	"github.com/marco/movieBrowser/internal/config"
	"github.com/marco/movieBrowser/internal/store"
	"github.com/marco/movieBrowser/internal/web"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "Path to configuration file")
	addr       = flag.String("addr", "", "Listen address (overrides server.addr)")
	noWatch    = flag.Bool("no-watch", false, "Do not reload the configuration file when it changes")
	verbose    = flag.Bool("verbose", false, "Show detailed logging")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run owns every resource so deferred cleanup happens before the exit code is returned
func run() int {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	client := catalog.NewClientWithConfig(catalog.ClientConfig{
		APIKey:       cfg.TMDB.APIKey,
		Language:     cfg.TMDB.Language,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Logger:       logger,
	})

	var prefs web.Preferences
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Error("preference store unavailable, theme falls back to a cookie", "path", cfg.Store.Path, "error", err)
	} else {
		defer st.Close()
		prefs = st
	}

	server := web.NewServer(client, prefs, web.Options{
		Categories:  cfg.Browse.Categories,
		Workers:     cfg.Browse.Workers,
		ItemWidth:   cfg.Browse.ItemWidth,
		Clamp:       cfg.ClampPolicy(),
		DefaultSort: cfg.DefaultSort(),
		Theme:       cfg.Theme(),
		Logger:      logger,
	})

	if !*noWatch {
		w, err := config.NewWatcher(*configPath, config.DefaultDebounce, logger, func(next *config.Config) {
			logger.Info("configuration reloaded", "theme", next.Browse.Theme, "default_sort", next.Browse.DefaultSort)
			server.SetDefaults(next.DefaultSort(), next.Theme())
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

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// pages wait on TMDB for up to the router's 30s timeout
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		logger.Error("listen failed", "error", err)
		return 1
	case <-done:
		logger.Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		_ = srv.Close()
	}
	logger.Info("server stopped")
	return 0
}
