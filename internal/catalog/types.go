package catalog

import (
	"fmt"
	"strings"
)

// ListResponse represents a paged TMDB list response (category listings and search)
type ListResponse struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// MovieSummary represents a movie as returned in TMDB list results
type MovieSummary struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
	OriginalLanguage string  `json:"original_language"`
}

// MovieDetails represents detailed movie information from TMDB
type MovieDetails struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	Tagline          string  `json:"tagline"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	Runtime          int     `json:"runtime"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Genres           []Genre `json:"genres"`
	Status           string  `json:"status"`
	IMDbID           string  `json:"imdb_id"`
	Homepage         string  `json:"homepage"`
	OriginalLanguage string  `json:"original_language"`
}

// GenreList joins the genre names with commas
func (d *MovieDetails) GenreList() string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// RuntimeText formats the runtime as "2h 19m"; unknown runtimes are ""
func (d *MovieDetails) RuntimeText() string {
	if d.Runtime <= 0 {
		return ""
	}
	if d.Runtime < 60 {
		return fmt.Sprintf("%dm", d.Runtime)
	}
	return fmt.Sprintf("%dh %dm", d.Runtime/60, d.Runtime%60)
}

// Genre represents a movie genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// apiError is the error body TMDB sends with non-2xx responses
type apiError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
