// Package web serves the movie browser as server-rendered HTML pages.
package web

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marco/movieBrowser/internal/carousel"
	"github.com/marco/movieBrowser/internal/catalog"
	"github.com/marco/movieBrowser/internal/ordering"
	"github.com/marco/movieBrowser/internal/render"
	"github.com/marco/movieBrowser/internal/store"
	"github.com/marco/movieBrowser/internal/theme"
)

// Catalog is the movie data source the pages are built from
type Catalog interface {
	catalog.Fetcher
	FirstResult(ctx context.Context, query string) (catalog.MovieSummary, bool)
	MovieDetails(ctx context.Context, id int) (*catalog.MovieDetails, error)
	PosterURL(posterPath string) string
}

// Preferences persists the user's choices. It may be nil.
type Preferences interface {
	Theme(ctx context.Context, fallback theme.Mode) (theme.Mode, error)
	SetTheme(ctx context.Context, m theme.Mode) error
	SortKey(ctx context.Context, fallback ordering.OrderKey) (ordering.OrderKey, error)
	SetSortKey(ctx context.Context, k ordering.OrderKey) error
	Reaction(ctx context.Context, movieID int) (store.MovieState, error)
	SetReaction(ctx context.Context, movieID int, r store.Reaction) (store.MovieState, error)
	ToggleWatchlist(ctx context.Context, movieID int) (store.MovieState, error)
	Watchlist(ctx context.Context) ([]int, error)
}

// Options configures a Server
type Options struct {
	Categories []string
	Workers    int
	// ItemWidth is the carousel step in pixels
	ItemWidth int
	// ViewportWidth is assumed when a request does not say how wide the page is
	ViewportWidth int
	Clamp         carousel.ClampPolicy
	DefaultSort   ordering.OrderKey
	Theme         theme.Mode
	Logger        *slog.Logger
}

// Server renders the movie pages
type Server struct {
	source   Catalog
	prefs    Preferences
	renderer *render.Renderer
	pages    map[string]*template.Template
	logger   *slog.Logger

	categories []string
	workers    int
	itemWidth  int
	viewport   int
	clamp      carousel.ClampPolicy

	mu          sync.RWMutex
	defaultSort ordering.OrderKey
	theme       theme.Mode
}

// NewServer creates a Server. prefs may be nil, in which case the theme
// lives in a cookie and reactions are unavailable.
func NewServer(source Catalog, prefs Preferences, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	categories := opts.Categories
	if len(categories) == 0 {
		for _, c := range catalog.Categories {
			categories = append(categories, string(c))
		}
	}
	if opts.ItemWidth <= 0 {
		opts.ItemWidth = 300
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = 1200
	}

	return &Server{
		source:      source,
		prefs:       prefs,
		renderer:    render.NewRenderer(source.PosterURL, logger),
		pages:       parsePages(),
		logger:      logger,
		categories:  categories,
		workers:     opts.Workers,
		itemWidth:   opts.ItemWidth,
		viewport:    opts.ViewportWidth,
		clamp:       opts.Clamp,
		defaultSort: opts.DefaultSort,
		theme:       opts.Theme,
	}
}

// SetDefaults replaces the sort key and theme used when the user has not
// chosen one
func (s *Server) SetDefaults(sort ordering.OrderKey, mode theme.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultSort = sort
	s.theme = mode
}

func (s *Server) defaults() (ordering.OrderKey, theme.Mode) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultSort, s.theme
}

// Handler returns the HTTP handler with every route mounted
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", HealthHandler().ServeHTTP)
	r.Get("/", s.handleHome)
	r.Get("/movie", s.handleMovie)
	r.Get("/search", s.handleSearch)
	r.Get("/watchlist", s.handleWatchlist)
	r.Post("/theme", s.handleTheme)
	r.Post("/movie/{id}/reaction", s.handleReaction)
	return r
}

// requestLogger logs every request through slog with its chi request ID
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// HealthHandler returns a simple health check endpoint
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
}
