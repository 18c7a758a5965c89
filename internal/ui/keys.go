package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Sort      key.Binding
	Search    key.Binding
	Enter     key.Binding
	Back      key.Binding
	Theme     key.Binding
	Like      key.Binding
	Dislike   key.Binding
	Watchlist key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
	Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll right")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev row")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next row")),
	Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Like:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
	Dislike:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dislike")),
	Watchlist: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watchlist")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp returns short help key bindings (for help.Model)
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Sort, k.Search, k.Enter, k.Help, k.Quit}
}

// FullHelp returns full help key bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Sort, k.Search, k.Enter, k.Back},
		{k.Like, k.Dislike, k.Watchlist, k.Theme},
		{k.Refresh, k.Help, k.Quit},
	}
}
