package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/mabhi256/tokgraph/internal/tokens"
)

type Model struct {
	// Data
	tree   *tokens.Tree
	path   string
	logger *slog.Logger

	// UI State
	rows      []row
	expanded  map[string]bool
	cursor    int
	offset    int
	focus     Pane
	searching bool
	status    string
	width     int
	height    int

	search  textinput.Model
	details viewport.Model

	// Key bindings
	keys KeyMap
}

// Options configures the browser
type Options struct {
	Path     string // token file, shown in the header and watched with Watch
	Watch    bool
	Debounce time.Duration
	Logger   *slog.Logger
}

type Pane int

const (
	TreePane Pane = iota
	DetailsPane
)

// row is one visible line of the tree pane
type row struct {
	path  string // full path
	label string
	depth int
	group bool
}

// reloadMsg carries the result of reloading the watched file
type reloadMsg struct {
	tree *tokens.Tree
	err  error
}

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Search   key.Binding
	Cancel   key.Binding
	NextPane key.Binding
	PrevPane key.Binding
	Quit     key.Binding
}

func k(keys []string, help, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(help, desc),
	)
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       k([]string{"up", "k"}, "↑/k", "up"),
		Down:     k([]string{"down", "j"}, "↓/j", "down"),
		Left:     k([]string{"left", "h"}, "←/h", "collapse"),
		Right:    k([]string{"right", "l"}, "→/l", "expand"),
		Enter:    k([]string{"enter", " "}, "enter", "toggle"),
		Search:   k([]string{"/"}, "/", "search"),
		Cancel:   k([]string{"esc"}, "esc", "clear search"),
		NextPane: k([]string{"tab"}, "tab", "switch pane"),
		PrevPane: k([]string{"shift+tab"}, "shift+tab", "previous pane"),
		Quit:     k([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}

func (km KeyMap) shortHelp() []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Left, km.Right, km.Enter, km.Search, km.NextPane, km.Quit}
}
