package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marco/movieBrowser/internal/catalog"
	"github.com/marco/movieBrowser/internal/ordering"
	"github.com/marco/movieBrowser/internal/store"
	"github.com/marco/movieBrowser/internal/theme"
)

// Catalog is the movie data source the UI reads from
type Catalog interface {
	catalog.Fetcher
	FirstResult(ctx context.Context, query string) (catalog.MovieSummary, bool)
	MovieDetails(ctx context.Context, id int) (*catalog.MovieDetails, error)
	PosterURL(posterPath string) string
}

// Preferences persists the user's choices. It may be nil.
type Preferences interface {
	SetTheme(ctx context.Context, m theme.Mode) error
	SetSortKey(ctx context.Context, k ordering.OrderKey) error
	Reaction(ctx context.Context, movieID int) (store.MovieState, error)
	SetReaction(ctx context.Context, movieID int, r store.Reaction) (store.MovieState, error)
	ToggleWatchlist(ctx context.Context, movieID int) (store.MovieState, error)
}

// Message types for async operations

type listsMsg struct {
	requestID int
	results   []catalog.CategoryResult
}

type detailsMsg struct {
	requestID int
	movieID   int
	details   *catalog.MovieDetails
	state     store.MovieState
	err       error
}

type searchMsg struct {
	requestID int
	query     string
	movie     catalog.MovieSummary
	found     bool
}

type reactionMsg struct {
	kind  reactionKind
	title string
	state store.MovieState
	err   error
}

type prefSavedMsg struct {
	name string
	err  error
}

// SettingsMsg carries the configured default theme and sort key, such as
// after the config file is reloaded
type SettingsMsg struct {
	Theme   theme.Mode
	SortKey ordering.OrderKey
}

// fetchLists returns a tea.Cmd that loads every category concurrently
func fetchLists(ctx context.Context, source catalog.Fetcher, categories []string, workers, requestID int) tea.Cmd {
	return func() tea.Msg {
		results := catalog.LoadCategories(ctx, source, categories, workers)
		return listsMsg{requestID: requestID, results: results}
	}
}

// fetchDetails returns a tea.Cmd that fetches movie details and the stored reaction
func fetchDetails(ctx context.Context, source Catalog, prefs Preferences, movieID, requestID int) tea.Cmd {
	return func() tea.Msg {
		details, err := source.MovieDetails(ctx, movieID)
		msg := detailsMsg{requestID: requestID, movieID: movieID, details: details, err: err}
		msg.state.MovieID = movieID
		if err == nil && prefs != nil {
			if st, perr := prefs.Reaction(ctx, movieID); perr == nil {
				msg.state = st
			}
		}
		return msg
	}
}

// runSearch returns a tea.Cmd that resolves a query to its first result
func runSearch(ctx context.Context, source Catalog, query string, requestID int) tea.Cmd {
	return func() tea.Msg {
		movie, found := source.FirstResult(ctx, query)
		return searchMsg{requestID: requestID, query: query, movie: movie, found: found}
	}
}

type reactionKind int

const (
	reactLike reactionKind = iota
	reactDislike
	reactWatchlist
)

// saveReaction returns a tea.Cmd that records a reaction for a movie
func saveReaction(prefs Preferences, movieID int, title string, kind reactionKind) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var st store.MovieState
		var err error
		switch kind {
		case reactLike:
			st, err = prefs.SetReaction(ctx, movieID, store.ReactionLike)
		case reactDislike:
			st, err = prefs.SetReaction(ctx, movieID, store.ReactionDislike)
		case reactWatchlist:
			st, err = prefs.ToggleWatchlist(ctx, movieID)
		}
		return reactionMsg{kind: kind, title: title, state: st, err: err}
	}
}

func saveTheme(prefs Preferences, m theme.Mode) tea.Cmd {
	return func() tea.Msg {
		return prefSavedMsg{name: "theme", err: prefs.SetTheme(context.Background(), m)}
	}
}

func saveSortKey(prefs Preferences, k ordering.OrderKey) tea.Cmd {
	return func() tea.Msg {
		return prefSavedMsg{name: "sort", err: prefs.SetSortKey(context.Background(), k)}
	}
}
