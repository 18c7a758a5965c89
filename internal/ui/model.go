package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marco/movieBrowser/internal/carousel"
	"github.com/marco/movieBrowser/internal/catalog"
	"github.com/marco/movieBrowser/internal/ordering"
	"github.com/marco/movieBrowser/internal/render"
	"github.com/marco/movieBrowser/internal/store"
	"github.com/marco/movieBrowser/internal/theme"
)

// ViewState represents the current view mode
type ViewState int

const (
	BrowseView ViewState = iota
	DetailView
	SearchView
)

const (
	// pixelsPerCell converts the configured item width to terminal cells
	pixelsPerCell = 12
	minTileCells  = 12
	// arrowGutter is the space reserved for the scroll arrows on each row
	arrowGutter = 4

	noMoviesText  = "No movies found."
	noResultsText = "No results found for your search."
)

// Options configures a Model
type Options struct {
	Categories []string
	ItemWidth  int
	Clamp      carousel.ClampPolicy
	// SortKey and Theme are the starting values, stored preferences included
	SortKey ordering.OrderKey
	Theme   theme.Mode
	// DefaultSort and DefaultTheme are the configured defaults. A starting
	// value that differs from its default counts as the user's choice.
	DefaultSort  ordering.OrderKey
	DefaultTheme theme.Mode
	Workers      int
	Logger       *slog.Logger
}

// row is one category list with its carousel
type row struct {
	category catalog.Category
	list     *ordering.ListContainer
	carousel *carousel.State
}

// Model is the main TUI model
type Model struct {
	source   Catalog
	prefs    Preferences
	renderer *render.Renderer
	registry *render.Registry
	engine   *ordering.Engine
	logger   *slog.Logger

	categories []string
	workers    int
	stepCells  int
	clamp      carousel.ClampPolicy
	rows       []*row
	focus      int
	sortKey    ordering.OrderKey
	mode       theme.Mode
	styles     theme.Styles

	// config defaults, and whether the user has overridden them
	defaultSort  ordering.OrderKey
	defaultTheme theme.Mode
	sortChosen   bool
	themeChosen  bool

	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	search   textinput.Model
	keys     keyMap
	state    ViewState
	width    int
	height   int

	loading       bool
	searching     bool
	detailLoading bool
	details       *catalog.MovieDetails
	detailState   store.MovieState
	detailErr     string
	err           error
	statusMsg     string

	// each slot accepts only the response to its latest request
	listRequestID   int
	detailRequestID int
	searchRequestID int
	cancelDetail    context.CancelFunc
}

// NewModel creates a new Model. prefs may be nil, in which case nothing
// is persisted.
func NewModel(source Catalog, prefs Preferences, opts Options) Model {
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

	stepCells := opts.ItemWidth / pixelsPerCell
	if stepCells < minTileCells {
		stepCells = minTileCells
	}

	registry := render.NewRegistry()

	rows := make([]*row, len(categories))
	for i, name := range categories {
		rows[i] = &row{
			category: catalog.Category(name),
			list:     ordering.NewList(name, nil),
			carousel: carousel.New(stepCells, 0, 0, opts.Clamp),
		}
	}

	ti := textinput.New()
	ti.Placeholder = "Search for a movie"
	ti.CharLimit = 100
	ti.Prompt = "Search: "

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		source:        source,
		prefs:         prefs,
		renderer:      render.NewRenderer(source.PosterURL, logger),
		registry:      registry,
		engine:        ordering.NewEngine(registry, logger),
		logger:        logger,
		categories:    categories,
		workers:       opts.Workers,
		stepCells:     stepCells,
		clamp:         opts.Clamp,
		rows:          rows,
		sortKey:       opts.SortKey,
		mode:          opts.Theme,
		defaultSort:   opts.DefaultSort,
		defaultTheme:  opts.DefaultTheme,
		sortChosen:    opts.SortKey != opts.DefaultSort,
		themeChosen:   opts.Theme != opts.DefaultTheme,
		styles:        opts.Theme.Styles(),
		viewport:      viewport.New(0, 0),
		spinner:       s,
		help:          help.New(),
		search:        ti,
		keys:          keys,
		state:         BrowseView,
		loading:       true,
		statusMsg:     "Loading movies...",
		listRequestID: 1,
	}
}

// Init starts loading the category lists
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchLists(context.Background(), m.source, m.categories, m.workers, m.listRequestID),
		m.spinner.Tick,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listsMsg:
		m.handleLists(msg)
		return m, nil

	case detailsMsg:
		m.handleDetails(msg)
		return m, nil

	case searchMsg:
		return m.handleSearch(msg)

	case reactionMsg:
		m.handleReaction(msg)
		return m, nil

	case prefSavedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to save preference", "preference", msg.name, "error", msg.err)
		}
		return m, nil

	case SettingsMsg:
		m.applySettings(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case SearchView:
			return m.updateSearch(msg)
		case DetailView:
			return m.updateDetail(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) busy() bool {
	return m.loading || m.searching || m.detailLoading
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if r := m.focusedRow(); r != nil {
			r.carousel.Advance(carousel.Backward)
		}

	case key.Matches(msg, m.keys.Right):
		if r := m.focusedRow(); r != nil {
			r.carousel.Advance(carousel.Forward)
		}

	case key.Matches(msg, m.keys.Up):
		if m.focus > 0 {
			m.focus--
		}

	case key.Matches(msg, m.keys.Down):
		if m.focus < len(m.rows)-1 {
			m.focus++
		}

	case key.Matches(msg, m.keys.Sort):
		m.sortKey = m.sortKey.Next()
		m.sortChosen = true
		m.reorderAll()
		m.statusMsg = "Sorted by " + m.sortKey.Label()
		if m.prefs != nil {
			return m, saveSortKey(m.prefs, m.sortKey)
		}

	case key.Matches(msg, m.keys.Search):
		m.state = SearchView
		m.search.SetValue("")
		m.err = nil
		m.statusMsg = "Type a title and press enter"
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Enter):
		if movie, ok := m.selected(); ok {
			return m.openDetails(movie.ID, movie.Title)
		}

	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()

	case key.Matches(msg, m.keys.Like):
		return m.react(reactLike)
	case key.Matches(msg, m.keys.Dislike):
		return m.react(reactDislike)
	case key.Matches(msg, m.keys.Watchlist):
		return m.react(reactWatchlist)

	case key.Matches(msg, m.keys.Refresh):
		m.listRequestID++
		m.loading = true
		m.err = nil
		m.statusMsg = "Refreshing..."
		return m, tea.Batch(
			fetchLists(context.Background(), m.source, m.categories, m.workers, m.listRequestID),
			m.spinner.Tick,
		)
	}

	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.closeDetails()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.Like):
		return m.react(reactLike)
	case key.Matches(msg, m.keys.Dislike):
		return m.react(reactDislike)
	case key.Matches(msg, m.keys.Watchlist):
		return m.react(reactWatchlist)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Blur()
		m.searchRequestID++
		m.searching = false
		m.state = BrowseView
		m.statusMsg = ""
		return m, nil

	case tea.KeyEnter:
		query := m.search.Value()
		if catalog.NormalizeQuery(query) == "" {
			return m, nil
		}
		m.searchRequestID++
		m.searching = true
		m.statusMsg = "Searching..."
		return m, tea.Batch(
			runSearch(context.Background(), m.source, query, m.searchRequestID),
			m.spinner.Tick,
		)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleLists(msg listsMsg) {
	if msg.requestID != m.listRequestID {
		m.logger.Debug("discarding stale list response", "request_id", msg.requestID)
		return
	}
	m.loading = false

	rows := make([]*row, 0, len(msg.results))
	total := 0
	for _, res := range msg.results {
		list := ordering.Populate(res.Category, m.renderer, res.Movies, m.registry)
		m.engine.Reorder(list, m.sortKey)
		total += list.Len()
		rows = append(rows, &row{
			category: catalog.Category(res.Category),
			list:     list,
			carousel: carousel.New(m.stepCells, list.Len(), m.carouselWidth(), m.clamp),
		})
	}
	m.rows = rows
	if m.focus >= len(rows) {
		m.focus = max(0, len(rows)-1)
	}
	m.statusMsg = fmt.Sprintf("Loaded %d movies", total)
}

func (m *Model) handleDetails(msg detailsMsg) {
	if msg.requestID != m.detailRequestID {
		m.logger.Debug("discarding stale details response", "movie_id", msg.movieID, "request_id", msg.requestID)
		return
	}
	m.detailLoading = false

	if msg.err != nil {
		m.err = msg.err
		if errors.Is(msg.err, catalog.ErrMovieNotFound) {
			m.detailErr = "Movie not found."
		} else {
			m.detailErr = "Could not load movie details."
		}
		m.logger.Error("failed to load movie details", "movie_id", msg.movieID, "error", msg.err)
		m.statusMsg = ""
		return
	}

	m.details = msg.details
	m.detailState = msg.state
	m.statusMsg = msg.details.Title
	m.viewport.SetContent(m.renderDetails())
	m.viewport.GotoTop()
}

func (m Model) handleSearch(msg searchMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != m.searchRequestID {
		m.logger.Debug("discarding stale search response", "query", msg.query)
		return m, nil
	}
	m.searching = false

	if !msg.found {
		m.statusMsg = noResultsText
		return m, nil
	}

	m.registry.Put(msg.movie)
	m.search.Blur()
	return m.openDetails(msg.movie.ID, msg.movie.Title)
}

func (m *Model) handleReaction(msg reactionMsg) {
	if msg.err != nil {
		m.logger.Warn("failed to save reaction", "movie_id", msg.state.MovieID, "error", msg.err)
		m.statusMsg = "Could not save your reaction"
		return
	}

	switch {
	case msg.kind == reactWatchlist && msg.state.Watchlist:
		m.statusMsg = "Added to watchlist: " + msg.title
	case msg.kind == reactWatchlist:
		m.statusMsg = "Removed from watchlist: " + msg.title
	case msg.state.Reaction == store.ReactionLike:
		m.statusMsg = "Liked: " + msg.title
	case msg.state.Reaction == store.ReactionDislike:
		m.statusMsg = "Disliked: " + msg.title
	default:
		m.statusMsg = "Cleared reaction: " + msg.title
	}

	if m.details != nil && m.details.ID == msg.state.MovieID {
		m.detailState = msg.state
		m.viewport.SetContent(m.renderDetails())
	}
}

// applySettings takes new config defaults. A changed default replaces the
// current value only while the user has not picked their own.
func (m *Model) applySettings(msg SettingsMsg) {
	if msg.Theme != m.defaultTheme {
		m.defaultTheme = msg.Theme
		if !m.themeChosen && msg.Theme != m.mode {
			m.setTheme(msg.Theme)
		}
	}
	if msg.SortKey != m.defaultSort {
		m.defaultSort = msg.SortKey
		if !m.sortChosen && msg.SortKey != m.sortKey {
			m.sortKey = msg.SortKey
			m.reorderAll()
		}
	}
	m.statusMsg = "Settings reloaded"
}

func (m Model) openDetails(movieID int, title string) (tea.Model, tea.Cmd) {
	if m.cancelDetail != nil {
		m.cancelDetail()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelDetail = cancel

	m.detailRequestID++
	m.state = DetailView
	m.details = nil
	m.detailErr = ""
	m.err = nil
	m.detailLoading = true
	m.statusMsg = "Loading " + title

	return m, tea.Batch(
		fetchDetails(ctx, m.source, m.prefs, movieID, m.detailRequestID),
		m.spinner.Tick,
	)
}

// closeDetails leaves the details view; an in-flight fetch is cancelled
// and its response will be discarded
func (m *Model) closeDetails() {
	if m.cancelDetail != nil {
		m.cancelDetail()
		m.cancelDetail = nil
	}
	m.detailRequestID++
	m.detailLoading = false
	m.details = nil
	m.detailErr = ""
	m.err = nil
	m.state = BrowseView
	m.statusMsg = ""
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.setTheme(m.mode.Toggle())
	m.themeChosen = true
	m.statusMsg = "Theme: " + m.mode.String()
	if m.prefs != nil {
		return m, saveTheme(m.prefs, m.mode)
	}
	return m, nil
}

func (m *Model) setTheme(mode theme.Mode) {
	m.mode = mode
	m.styles = mode.Styles()
	if m.details != nil {
		m.viewport.SetContent(m.renderDetails())
	}
}

// react records a reaction for the movie on screen: the open details, or
// the selected tile when browsing
func (m Model) react(kind reactionKind) (tea.Model, tea.Cmd) {
	var id int
	var title string
	if m.state == DetailView {
		if m.details == nil {
			return m, nil
		}
		id, title = m.details.ID, m.details.Title
	} else {
		movie, ok := m.selected()
		if !ok {
			return m, nil
		}
		id, title = movie.ID, movie.Title
	}

	if m.prefs == nil {
		m.statusMsg = "Preferences are not available"
		return m, nil
	}
	return m, saveReaction(m.prefs, id, title, kind)
}

func (m *Model) reorderAll() {
	for _, r := range m.rows {
		m.engine.Reorder(r.list, m.sortKey)
	}
}

func (m Model) focusedRow() *row {
	if m.focus < 0 || m.focus >= len(m.rows) {
		return nil
	}
	return m.rows[m.focus]
}

// selected returns the first visible movie of the focused row
func (m Model) selected() (catalog.MovieSummary, bool) {
	r := m.focusedRow()
	if r == nil || r.list.Len() == 0 {
		return catalog.MovieSummary{}, false
	}
	idx := r.carousel.Offset
	if idx >= r.list.Len() {
		return catalog.MovieSummary{}, false
	}
	return m.registry.Lookup(r.list.Items[idx].ID)
}

func (m Model) carouselWidth() int {
	return max(0, m.width-arrowGutter)
}

// resizePanes adjusts every carousel and the viewport to the window size
func (m *Model) resizePanes() {
	cw := m.carouselWidth()
	for _, r := range m.rows {
		r.carousel.Resize(cw)
	}

	// header, blank line, status bar and help
	chrome := 5
	m.viewport.Width = m.width
	m.viewport.Height = max(0, m.height-chrome)
	m.search.Width = max(10, m.width-len(m.search.Prompt)-2)
	m.help.Width = m.width

	if m.details != nil {
		m.viewport.SetContent(m.renderDetails())
	}
}
