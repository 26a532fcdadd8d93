package state

import "github.com/charmbracelet/bubbles/key"

// KeyMap contains all key bindings for the dashboard.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Collapse key.Binding

	// Actions
	Select    key.Binding
	Back      key.Binding
	Refresh   key.Binding
	Workspace key.Binding
	CopyURL   key.Binding
	Share     key.Binding
	Summary   key.Binding

	// Filters
	Mine      key.Binding
	Created   key.Binding
	Following key.Binding
	Search    key.Binding

	// General
	Theme  key.Binding
	Help   key.Binding
	Logout key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default Vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Collapse: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "fold subtasks")),

		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Workspace: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next workspace")),
		CopyURL:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task link")),
		Share:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		Summary:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "AI summary")),

		Mine:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "only mine")),
		Created:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "+created")),
		Following: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "+following")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),

		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Logout: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Mine, k.Search, k.Select, k.Summary, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Collapse, k.Select, k.Back},
		{k.Refresh, k.Workspace, k.CopyURL, k.Share, k.Summary},
		{k.Mine, k.Created, k.Following, k.Search},
		{k.Theme, k.Help, k.Logout, k.Quit},
	}
}
