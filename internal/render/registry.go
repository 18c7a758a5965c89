package render

import (
	"sync"

	"github.com/marco/movieBrowser/internal/catalog"
)

// Registry maps rendered movie IDs back to the summaries they were
// rendered from. Tiles only carry the ID.
type Registry struct {
	mu     sync.RWMutex
	movies map[int]catalog.MovieSummary
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{movies: make(map[int]catalog.MovieSummary)}
}

// Put records a summary. A later Put for the same ID replaces the earlier one.
func (r *Registry) Put(movie catalog.MovieSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movies[movie.ID] = movie
}

// Lookup returns the summary recorded for id
func (r *Registry) Lookup(id int) (catalog.MovieSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.movies[id]
	return m, ok
}

// Len returns the number of recorded summaries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.movies)
}
