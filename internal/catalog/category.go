package catalog

import "fmt"

// Category is one of the fixed TMDB movie listings
type Category string

const (
	Popular    Category = "popular"
	NowPlaying Category = "now_playing"
	Upcoming   Category = "upcoming"
)

// Categories lists every supported category in display order
var Categories = []Category{Popular, NowPlaying, Upcoming}

// ParseCategory validates a category name
func ParseCategory(name string) (Category, error) {
	switch c := Category(name); c {
	case Popular, NowPlaying, Upcoming:
		return c, nil
	default:
		return "", fmt.Errorf("invalid category %q", name)
	}
}

// Label returns the heading shown above the category's list
func (c Category) Label() string {
	switch c {
	case Popular:
		return "Popular"
	case NowPlaying:
		return "Now Playing"
	case Upcoming:
		return "Upcoming"
	default:
		return string(c)
	}
}
