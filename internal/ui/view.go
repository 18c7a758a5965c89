package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/marco/movieBrowser/internal/ordering"
	"github.com/marco/movieBrowser/internal/store"
)

// View renders the current view
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	switch m.state {
	case DetailView:
		b.WriteString(m.detailView())
	case SearchView:
		b.WriteString(m.searchView())
	default:
		b.WriteString(m.browseView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) headerView() string {
	meta := fmt.Sprintf("sort: %s · theme: %s", m.sortKey.Label(), m.mode)
	return m.styles.Title.Render("Movie Browser") + " " + m.styles.Label.Render(meta)
}

func (m Model) statusView() string {
	if m.busy() {
		return m.spinner.View() + " " + m.styles.StatusBar.Render(m.statusMsg)
	}
	if m.err != nil {
		return m.styles.Error.Render(m.statusMsg)
	}
	return m.styles.StatusBar.Render(m.statusMsg)
}

func (m Model) browseView() string {
	if m.loading && m.registry.Len() == 0 {
		return m.spinner.View() + " Loading movies..."
	}

	sections := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		focused := i == m.focus
		heading := fmt.Sprintf("%s (%d)", r.category.Label(), r.list.Len())
		if focused {
			heading = m.styles.RowTitleFocus.Render("▸ " + heading)
		} else {
			heading = m.styles.RowTitle.Render("  " + heading)
		}

		var body string
		if r.list.Len() == 0 {
			body = m.styles.Label.Render("  " + noMoviesText)
		} else {
			body = m.rowView(r, focused)
		}
		sections = append(sections, heading+"\n"+body)
	}
	return strings.Join(sections, "\n")
}

// rowView draws the visible window of a row between its scroll arrows.
// An arrow is only drawn when stepping in that direction is possible.
func (m Model) rowView(r *row, focused bool) string {
	left := m.styles.ArrowHidden.Render("  ")
	right := left
	if r.carousel.CanStepBackward() {
		left = m.styles.Arrow.Render("‹ ")
	}
	if r.carousel.CanStepForward() {
		right = m.styles.Arrow.Render(" ›")
	}

	start, end := r.carousel.Window()
	tiles := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		tiles = append(tiles, m.tileView(r.list.Items[i], focused && i == r.carousel.Offset))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		left,
		lipgloss.JoinHorizontal(lipgloss.Top, tiles...),
		right,
	)
}

func (m Model) tileView(item *ordering.RenderedItem, selected bool) string {
	inner := m.stepCells - 4
	title := truncate(item.Fragment.Title, inner)

	meta := ""
	if movie, ok := m.registry.Lookup(item.ID); ok {
		meta = fmt.Sprintf("★ %.1f", movie.VoteAverage)
		if year := releaseYear(movie.ReleaseDate); year != "" {
			meta += "  " + year
		}
	}

	style := m.styles.Tile
	if selected {
		style = m.styles.TileFocus
	}
	return style.Width(m.stepCells - 2).Render(title + "\n" + truncate(meta, inner))
}

func (m Model) searchView() string {
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	if m.statusMsg == noResultsText {
		b.WriteString(m.styles.Label.Render(noResultsText))
	} else {
		b.WriteString(m.styles.Label.Render("Enter opens the first match."))
	}
	return b.String()
}

func (m Model) detailView() string {
	switch {
	case m.detailLoading:
		return m.spinner.View() + " Loading details..."
	case m.detailErr != "":
		return m.styles.Error.Render(m.detailErr) + "\n\n" + m.styles.Label.Render("esc to go back")
	case m.details == nil:
		return m.styles.Label.Render("No movie selected")
	}
	return m.viewport.View()
}

// renderDetails builds the viewport content for the open movie
func (m Model) renderDetails() string {
	d := m.details
	if d == nil {
		return ""
	}
	s := m.styles

	var b strings.Builder
	title := d.Title
	if year := releaseYear(d.ReleaseDate); year != "" {
		title += " (" + year + ")"
	}
	b.WriteString(s.DetailTitle.Render(title))
	b.WriteString("\n")
	if d.Tagline != "" {
		b.WriteString(s.Tagline.Render(d.Tagline))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(s.Label.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("Rating", fmt.Sprintf("%.1f/10 from %s votes", d.VoteAverage, humanize.Comma(int64(d.VoteCount))))
	field("Released", releaseLine(d.ReleaseDate))
	field("Runtime", d.RuntimeText())
	field("Genres", d.GenreList())
	field("Popularity", humanize.CommafWithDigits(d.Popularity, 1))
	field("Status", d.Status)
	if d.OriginalTitle != "" && d.OriginalTitle != d.Title {
		field("Original", d.OriginalTitle)
	}
	if d.IMDbID != "" {
		field("IMDb", "https://www.imdb.com/title/"+d.IMDbID)
	}
	field("Homepage", d.Homepage)
	field("You", m.reactionLine(m.detailState))

	if d.Overview != "" {
		b.WriteString("\n")
		width := m.viewport.Width
		if width <= 0 {
			width = 80
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(d.Overview))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) reactionLine(st store.MovieState) string {
	var parts []string
	switch st.Reaction {
	case store.ReactionLike:
		parts = append(parts, m.styles.Liked.Render("liked"))
	case store.ReactionDislike:
		parts = append(parts, m.styles.Disliked.Render("disliked"))
	}
	if st.Watchlist {
		parts = append(parts, "on watchlist")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

func releaseLine(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", t.Format("January 2, 2006"), humanize.Time(t))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
