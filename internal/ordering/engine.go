package ordering

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/marco/movieBrowser/internal/catalog"
)

// Lookup resolves an item ID to the summary it was rendered from
type Lookup interface {
	Lookup(id int) (catalog.MovieSummary, bool)
}

// Engine reorders lists using summaries from a Lookup
type Engine struct {
	lookup Lookup
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil logger uses slog.Default().
func NewEngine(lookup Lookup, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{lookup: lookup, logger: logger}
}

// sortValue is an item's precomputed sort field
type sortValue struct {
	item  *RenderedItem
	value float64
	ok    bool
}

// Reorder permutes l.Items by key.
//
// Default sorts by OriginalIndex ascending. The other keys sort descending
// by their field; all sorts are stable. An item whose summary cannot be
// found compares equal to everything and stays wherever the stable sort
// leaves it. Reorder never fails and never changes list membership.
func (e *Engine) Reorder(l *ListContainer, key OrderKey) {
	if l == nil || len(l.Items) < 2 {
		return
	}

	if key == Default {
		slices.SortStableFunc(l.Items, func(a, b *RenderedItem) int {
			return cmp.Compare(a.OriginalIndex, b.OriginalIndex)
		})
		return
	}

	values := make([]sortValue, len(l.Items))
	for i, item := range l.Items {
		values[i] = e.extract(l.Name, item, key)
	}

	slices.SortStableFunc(values, func(a, b sortValue) int {
		if !a.ok || !b.ok {
			return 0
		}
		// descending
		return cmp.Compare(b.value, a.value)
	})

	for i, v := range values {
		l.Items[i] = v.item
	}
}

func (e *Engine) extract(list string, item *RenderedItem, key OrderKey) sortValue {
	v := sortValue{item: item}
	if e.lookup == nil {
		e.logger.Warn("skipping item due to missing movie data", "list", list, "id", item.ID)
		return v
	}
	movie, found := e.lookup.Lookup(item.ID)
	if !found {
		e.logger.Warn("skipping item due to missing movie data", "list", list, "id", item.ID)
		return v
	}

	switch key {
	case VoteAverage:
		v.value, v.ok = movie.VoteAverage, true
	case Popularity:
		v.value, v.ok = movie.Popularity, true
	case ReleaseDate:
		v.value, v.ok = releaseValue(movie.ReleaseDate), true
	default:
		e.logger.Warn("unknown order key", "key", int(key))
	}
	return v
}

var releaseLayouts = []string{"2006-01-02", time.RFC3339}

// releaseValue converts a release date to a sortable number.
// Unparsable dates are the earliest possible value.
func releaseValue(s string) float64 {
	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.Unix())
		}
	}
	return math.Inf(-1)
}
