// Package render turns movie summaries into list tiles.
package render

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/marco/movieBrowser/internal/catalog"
)

// Fragment is the display form of a single movie tile.
// The zero Fragment is empty and must be left out of lists.
type Fragment struct {
	ID        int
	Title     string
	PosterURL string
	HTML      template.HTML
}

// Empty reports whether the fragment has nothing to show
func (f Fragment) Empty() bool {
	return f.ID == 0 && f.HTML == ""
}

// PosterFunc maps a TMDB poster path to an absolute image URL
type PosterFunc func(posterPath string) string

// Renderer renders movie tiles
type Renderer struct {
	posterURL PosterFunc
	tpl       *template.Template
	logger    *slog.Logger
}

var tileTpl = template.Must(template.New("tile").Parse(
	`<li class="movie-item" data-movie-id="{{.ID}}">` +
		`<a href="/movie?id={{.ID}}">` +
		`<img class="movie-item-img" src="{{.PosterURL}}" alt="{{.Title}}">` +
		`</a>` +
		`<div class="movie-item-info"><span class="movie-item-title">{{.Title}}</span></div>` +
		`</li>`))

// NewRenderer creates a Renderer. A nil logger uses slog.Default().
func NewRenderer(posterURL PosterFunc, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{posterURL: posterURL, tpl: tileTpl, logger: logger}
}

// Render converts a movie into a tile. Movies without a poster are not
// renderable and produce an empty Fragment.
func (r *Renderer) Render(movie catalog.MovieSummary) Fragment {
	if movie.ID == 0 || movie.PosterPath == "" {
		r.logger.Warn("missing movie data", "id", movie.ID, "title", movie.Title)
		return Fragment{}
	}

	f := Fragment{
		ID:        movie.ID,
		Title:     movie.Title,
		PosterURL: r.posterURL(movie.PosterPath),
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, f); err != nil {
		r.logger.Error("failed to render movie tile", "id", movie.ID, "error", err)
		return Fragment{}
	}
	f.HTML = template.HTML(buf.String())
	return f
}

// RenderAll renders movies in order, dropping the unrenderable ones and
// recording every rendered movie in reg
func (r *Renderer) RenderAll(movies []catalog.MovieSummary, reg *Registry) []Fragment {
	out := make([]Fragment, 0, len(movies))
	for _, m := range movies {
		f := r.Render(m)
		if f.Empty() {
			continue
		}
		if reg != nil {
			reg.Put(m)
		}
		out = append(out, f)
	}
	return out
}
