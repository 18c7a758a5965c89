// Package theme holds the light/dark display mode shared by both front ends.
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Mode is the display mode
type Mode int

const (
	Dark Mode = iota
	Light
)

// ParseMode parses "dark" or "light"; "" means dark
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return Dark, fmt.Errorf("unknown theme %q", s)
	}
}

func (m Mode) String() string {
	if m == Light {
		return "light"
	}
	return "dark"
}

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// BodyClass is the CSS class put on <body> for the web page
func (m Mode) BodyClass() string {
	if m == Light {
		return "light-mode"
	}
	return "dark-mode"
}

// ToggleLabel is the text of the theme toggle control
func (m Mode) ToggleLabel() string {
	if m == Light {
		return "Dark mode"
	}
	return "Light mode"
}

// Palette is the set of terminal colors for one mode
type Palette struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Highlight  lipgloss.Color
	Good       lipgloss.Color
	Bad        lipgloss.Color
}

var (
	darkPalette = Palette{
		Foreground: lipgloss.Color("255"),
		Background: lipgloss.Color("0"),
		Accent:     lipgloss.Color("13"),
		Muted:      lipgloss.Color("7"),
		Highlight:  lipgloss.Color("14"),
		Good:       lipgloss.Color("10"),
		Bad:        lipgloss.Color("1"),
	}
	lightPalette = Palette{
		Foreground: lipgloss.Color("0"),
		Background: lipgloss.Color("255"),
		Accent:     lipgloss.Color("5"),
		Muted:      lipgloss.Color("8"),
		Highlight:  lipgloss.Color("4"),
		Good:       lipgloss.Color("2"),
		Bad:        lipgloss.Color("1"),
	}
)

// Palette returns the colors for m
func (m Mode) Palette() Palette {
	if m == Light {
		return lightPalette
	}
	return darkPalette
}

// Styles are the lipgloss styles the terminal UI draws with
type Styles struct {
	Title         lipgloss.Style
	RowTitle      lipgloss.Style
	RowTitleFocus lipgloss.Style
	Tile          lipgloss.Style
	TileFocus     lipgloss.Style
	Arrow         lipgloss.Style
	ArrowHidden   lipgloss.Style
	DetailTitle   lipgloss.Style
	Tagline       lipgloss.Style
	Label         lipgloss.Style
	StatusBar     lipgloss.Style
	Error         lipgloss.Style
	Liked         lipgloss.Style
	Disliked      lipgloss.Style
}

// Styles builds the style set for m
func (m Mode) Styles() Styles {
	p := m.Palette()
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Padding(0, 1),
		RowTitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Bold(true),
		RowTitleFocus: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Tile: lipgloss.NewStyle().
			Foreground(p.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Muted).
			Padding(0, 1),
		TileFocus: lipgloss.NewStyle().
			Foreground(p.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Arrow: lipgloss.NewStyle().
			Foreground(p.Highlight).
			Bold(true),
		ArrowHidden: lipgloss.NewStyle().
			Foreground(p.Background),
		DetailTitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Tagline: lipgloss.NewStyle().
			Foreground(p.Highlight).
			Italic(true),
		Label: lipgloss.NewStyle().
			Foreground(p.Muted),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Muted),
		Error: lipgloss.NewStyle().
			Foreground(p.Bad),
		Liked: lipgloss.NewStyle().
			Foreground(p.Good),
		Disliked: lipgloss.NewStyle().
			Foreground(p.Bad),
	}
}
