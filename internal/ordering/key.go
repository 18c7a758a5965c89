package ordering

import "fmt"

// OrderKey selects how a list is ordered
type OrderKey int

const (
	// Default restores the order captured by Snapshot
	Default OrderKey = iota
	VoteAverage
	ReleaseDate
	Popularity
)

// Keys lists every OrderKey in the order the sort control offers them
var Keys = []OrderKey{Default, VoteAverage, ReleaseDate, Popularity}

// String returns the wire name of the key, as used in query parameters and config
func (k OrderKey) String() string {
	switch k {
	case Default:
		return "default"
	case VoteAverage:
		return "vote_average"
	case ReleaseDate:
		return "release_date"
	case Popularity:
		return "popularity"
	default:
		return "unknown"
	}
}

// Label returns the human readable name of the key
func (k OrderKey) Label() string {
	switch k {
	case Default:
		return "Default"
	case VoteAverage:
		return "Average Rating"
	case ReleaseDate:
		return "Release Date"
	case Popularity:
		return "Popularity"
	default:
		return "Unknown"
	}
}

// Next returns the key after k, wrapping around
func (k OrderKey) Next() OrderKey {
	return Keys[(int(k)+1)%len(Keys)]
}

// ParseOrderKey parses a wire name. The empty string means Default.
func ParseOrderKey(s string) (OrderKey, error) {
	switch s {
	case "", "default":
		return Default, nil
	case "vote_average":
		return VoteAverage, nil
	case "release_date":
		return ReleaseDate, nil
	case "popularity":
		return Popularity, nil
	default:
		return Default, fmt.Errorf("unknown order key %q", s)
	}
}
