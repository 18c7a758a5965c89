package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marco/movieBrowser/internal/carousel"
	"github.com/marco/movieBrowser/internal/catalog"
	"github.com/marco/movieBrowser/internal/ordering"
	"github.com/marco/movieBrowser/internal/render"
	"github.com/marco/movieBrowser/internal/store"
	"github.com/marco/movieBrowser/internal/theme"
)

const (
	themeCookie = "theme"

	noMovieText   = "No movie selected"
	notFoundText  = "Movie not found."
	loadErrorText = "Could not load movie details."
	noResultsText = "No results found for your search."
)

type pageBase struct {
	Title      string
	Theme      theme.Mode
	ReturnPath string
	Query      string
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

type listView struct {
	Name       string
	Label      string
	Items      []template.HTML
	TranslateX int
	PrevURL    string
	NextURL    string
}

type homePage struct {
	pageBase
	SortKey     ordering.OrderKey
	SortOptions []sortOption
	Lists       []listView
	ItemWidth   int
	Viewport    int
}

type detailsPage struct {
	pageBase
	Movie     *catalog.MovieDetails
	PosterURL string
	Votes     string
	Runtime   string
	Genres    string
	State     store.MovieState
	CanReact  bool
}

type watchlistEntry struct {
	ID        int
	Title     string
	PosterURL string
}

type watchlistPage struct {
	pageBase
	Entries []watchlistEntry
}

type messagePage struct {
	pageBase
	Message string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	sortKey := s.sortKeyFor(r)

	viewport := s.viewport
	if vw, err := strconv.Atoi(q.Get("vw")); err == nil && vw > 0 {
		viewport = vw
	}

	registry := render.NewRegistry()
	engine := ordering.NewEngine(registry, s.logger)
	results := catalog.LoadCategories(ctx, s.source, s.categories, s.workers)

	lists := make([]listView, 0, len(results))
	for _, res := range results {
		list := ordering.Populate(res.Category, s.renderer, res.Movies, registry)
		engine.Reorder(list, sortKey)

		state := carousel.New(s.itemWidth, list.Len(), viewport, s.clamp)
		// offsets past the end clamp like repeated clicks on the arrow
		if want, err := strconv.Atoi(q.Get(res.Category)); err == nil {
			for i := 0; i < want; i++ {
				if !state.Advance(carousel.Forward) {
					break
				}
			}
		}

		lv := listView{
			Name:       res.Category,
			Label:      catalog.Category(res.Category).Label(),
			TranslateX: state.TranslateX(),
		}
		for _, item := range list.Items {
			lv.Items = append(lv.Items, item.Fragment.HTML)
		}
		if state.CanStepBackward() {
			lv.PrevURL = withParam(r.URL, res.Category, state.Offset-1)
		}
		if state.CanStepForward() {
			lv.NextURL = withParam(r.URL, res.Category, state.Offset+1)
		}
		lists = append(lists, lv)
	}

	opts := make([]sortOption, 0, len(ordering.Keys))
	for _, k := range ordering.Keys {
		opts = append(opts, sortOption{Value: k.String(), Label: k.Label(), Selected: k == sortKey})
	}

	s.renderPage(w, r, http.StatusOK, "home", homePage{
		pageBase:    s.base(r, "Movies"),
		SortKey:     sortKey,
		SortOptions: opts,
		Lists:       lists,
		ItemWidth:   s.itemWidth,
		Viewport:    viewport,
	})
}

// sortKeyFor resolves the sort key of a request: the sort parameter when
// valid (and remembered), else the stored preference, else the default
func (s *Server) sortKeyFor(r *http.Request) ordering.OrderKey {
	ctx := r.Context()
	def, _ := s.defaults()

	if raw := r.URL.Query().Get("sort"); raw != "" {
		k, err := ordering.ParseOrderKey(raw)
		if err == nil {
			if s.prefs != nil {
				if err := s.prefs.SetSortKey(ctx, k); err != nil {
					s.logger.Warn("failed to save sort key", "error", err)
				}
			}
			return k
		}
		s.logger.Warn("invalid sort key", "sort", raw, "error", err)
	}

	if s.prefs == nil {
		return def
	}
	k, err := s.prefs.SortKey(ctx, def)
	if err != nil {
		s.logger.Warn("failed to read sort key", "error", err)
	}
	return k
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.URL.Query().Get("id")
	id, err := strconv.Atoi(raw)
	if raw == "" || err != nil || id <= 0 {
		s.logger.Warn("no movie id provided", "id", raw, "request_id", middleware.GetReqID(ctx))
		s.renderMessage(w, r, http.StatusBadRequest, noMovieText)
		return
	}

	details, err := s.source.MovieDetails(ctx, id)
	if errors.Is(err, catalog.ErrMovieNotFound) {
		s.renderMessage(w, r, http.StatusNotFound, notFoundText)
		return
	}
	if err != nil {
		s.logger.Error("failed to load movie details", "movie_id", id, "error", err)
		s.renderMessage(w, r, http.StatusBadGateway, loadErrorText)
		return
	}

	page := detailsPage{
		pageBase:  s.base(r, details.OriginalTitle),
		Movie:     details,
		PosterURL: s.source.PosterURL(details.PosterPath),
		Votes:     humanize.Comma(int64(details.VoteCount)),
		Runtime:   details.RuntimeText(),
		Genres:    details.GenreList(),
		State:     store.MovieState{MovieID: id},
		CanReact:  s.prefs != nil,
	}
	if page.Title == "" {
		page.Title = details.Title
	}
	if s.prefs != nil {
		st, err := s.prefs.Reaction(ctx, id)
		if err != nil {
			s.logger.Warn("failed to read reaction", "movie_id", id, "error", err)
		} else {
			page.State = st
		}
	}
	s.renderPage(w, r, http.StatusOK, "details", page)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if catalog.NormalizeQuery(query) == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	movie, found := s.source.FirstResult(r.Context(), query)
	if !found {
		s.renderMessage(w, r, http.StatusOK, noResultsText)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/movie?id=%d", movie.ID), http.StatusFound)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	next := s.currentTheme(r).Toggle()

	if s.prefs != nil {
		if err := s.prefs.SetTheme(r.Context(), next); err != nil {
			s.logger.Warn("failed to save theme", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    next.String(),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, safeReturn(r.FormValue("return"), "/"), http.StatusSeeOther)
}

func (s *Server) handleReaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.renderMessage(w, r, http.StatusBadRequest, noMovieText)
		return
	}
	if s.prefs == nil {
		s.renderMessage(w, r, http.StatusServiceUnavailable, "Preferences are not available.")
		return
	}

	var st store.MovieState
	switch kind := r.FormValue("reaction"); kind {
	case "watchlist":
		st, err = s.prefs.ToggleWatchlist(ctx, id)
	default:
		reaction, perr := store.ParseReaction(kind)
		if perr != nil || reaction == store.ReactionNone {
			s.logger.Warn("invalid reaction", "movie_id", id, "reaction", kind)
			s.renderMessage(w, r, http.StatusBadRequest, "Unknown reaction.")
			return
		}
		st, err = s.prefs.SetReaction(ctx, id, reaction)
	}
	if err != nil {
		s.logger.Error("failed to save reaction", "movie_id", id, "error", err)
		s.renderMessage(w, r, http.StatusInternalServerError, "Could not save your reaction.")
		return
	}

	s.logger.Debug("reaction saved", "movie_id", id, "reaction", string(st.Reaction), "watchlist", st.Watchlist)
	fallback := fmt.Sprintf("/movie?id=%d", id)
	http.Redirect(w, r, safeReturn(r.FormValue("return"), fallback), http.StatusSeeOther)
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.prefs == nil {
		s.renderMessage(w, r, http.StatusServiceUnavailable, "Preferences are not available.")
		return
	}

	ids, err := s.prefs.Watchlist(ctx)
	if err != nil {
		s.logger.Error("failed to read watchlist", "error", err)
		s.renderMessage(w, r, http.StatusInternalServerError, "Could not load your watchlist.")
		return
	}

	page := watchlistPage{pageBase: s.base(r, "Watchlist")}
	for _, id := range ids {
		details, err := s.source.MovieDetails(ctx, id)
		if err != nil {
			s.logger.Warn("skipping watchlist entry", "movie_id", id, "error", err)
			continue
		}
		page.Entries = append(page.Entries, watchlistEntry{
			ID:        id,
			Title:     details.Title,
			PosterURL: s.source.PosterURL(details.PosterPath),
		})
	}
	s.renderPage(w, r, http.StatusOK, "watchlist", page)
}

// currentTheme resolves the theme: stored preference, then cookie, then default
func (s *Server) currentTheme(r *http.Request) theme.Mode {
	_, mode := s.defaults()
	if c, err := r.Cookie(themeCookie); err == nil {
		if m, err := theme.ParseMode(c.Value); err == nil {
			mode = m
		}
	}
	if s.prefs == nil {
		return mode
	}
	m, err := s.prefs.Theme(r.Context(), mode)
	if err != nil {
		s.logger.Warn("failed to read theme", "error", err)
	}
	return m
}

func (s *Server) base(r *http.Request, title string) pageBase {
	return pageBase{
		Title:      title,
		Theme:      s.currentTheme(r),
		ReturnPath: r.URL.RequestURI(),
		Query:      r.URL.Query().Get("q"),
	}
}

func (s *Server) renderMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.renderPage(w, r, status, "message", messagePage{pageBase: s.base(r, msg), Message: msg})
}

// renderPage executes a page into a buffer first so a template error
// never produces a half-written response
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tpl, ok := s.pages[name]
	if !ok {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "base", data); err != nil {
		s.logger.Error("template exec error", "page", name, "error", err, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// withParam returns u's path and query with key set to n
func withParam(u *url.URL, key string, n int) string {
	q := u.Query()
	q.Set(key, strconv.Itoa(n))
	return u.Path + "?" + q.Encode()
}

// safeReturn accepts only local absolute paths as redirect targets
func safeReturn(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
