// Package ordering reorders rendered movie lists in place.
//
// A list is populated once, Snapshot records every item's original position,
// and Engine.Reorder then permutes the items by a chosen OrderKey. Reordering
// with Default always restores the snapshot order.
package ordering

import (
	"github.com/marco/movieBrowser/internal/catalog"
	"github.com/marco/movieBrowser/internal/render"
)

// RenderedItem is one tile in a list
type RenderedItem struct {
	ID int
	// OriginalIndex is the item's position when Snapshot ran; -1 before that
	OriginalIndex int
	Fragment      render.Fragment
}

// ListContainer is an ordered list of rendered items. Membership is fixed
// after NewList; only the order changes.
type ListContainer struct {
	Name  string
	Items []*RenderedItem
}

// NewList builds a container from rendered fragments, skipping empty ones
func NewList(name string, fragments []render.Fragment) *ListContainer {
	l := &ListContainer{Name: name, Items: make([]*RenderedItem, 0, len(fragments))}
	for _, f := range fragments {
		if f.Empty() {
			continue
		}
		l.Items = append(l.Items, &RenderedItem{ID: f.ID, OriginalIndex: -1, Fragment: f})
	}
	return l
}

// Len returns the number of items
func (l *ListContainer) Len() int {
	return len(l.Items)
}

// IDs returns item IDs in current order
func (l *ListContainer) IDs() []int {
	ids := make([]int, len(l.Items))
	for i, item := range l.Items {
		ids[i] = item.ID
	}
	return ids
}

// Snapshot stamps every item with its current position.
// Callers run it exactly once, after population and before any Reorder;
// running it after a reorder would redefine the original order.
func Snapshot(l *ListContainer) {
	if l == nil {
		return
	}
	for i, item := range l.Items {
		item.OriginalIndex = i
	}
}

// Populate renders movies into a new list, records them in reg and
// snapshots the result. The returned list is ready for Reorder.
func Populate(name string, r *render.Renderer, movies []catalog.MovieSummary, reg *render.Registry) *ListContainer {
	l := NewList(name, r.RenderAll(movies, reg))
	Snapshot(l)
	return l
}
