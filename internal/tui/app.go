package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/mabhi256/tokgraph/internal/loader"
	"github.com/mabhi256/tokgraph/internal/tokens"
	"github.com/mabhi256/tokgraph/utils"
)

const (
	headerHeight = 2
	helpHeight   = 1
	borderSize   = 2 // pane border rows or columns
	paddingSize  = 2 // pane horizontal padding
)

func initialModel(tree *tokens.Tree, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "filter token paths"

	m := &Model{
		tree:     tree,
		path:     opts.Path,
		logger:   logger,
		expanded: make(map[string]bool),
		focus:    TreePane,
		search:   search,
		details:  viewport.New(0, 0),
		keys:     DefaultKeyMap(),
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case reloadMsg:
		return m.handleReload(msg)

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextPane):
			m.focus = utils.GetNextEnum(m.focus, DetailsPane)
			return m, nil
		case key.Matches(msg, m.keys.PrevPane):
			m.focus = utils.GetPrevEnum(m.focus, DetailsPane)
			return m, nil
		case key.Matches(msg, m.keys.Search):
			m.searching = true
			m.focus = TreePane
			return m, m.search.Focus()
		case key.Matches(msg, m.keys.Cancel):
			m.clearSearch()
			return m, nil
		}

		if m.focus == DetailsPane {
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}
		return m.handleTreeKeys(msg)
	}

	return m, nil
}

func (m *Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current, ok := m.selected()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case !ok:
		// empty pane

	case key.Matches(msg, m.keys.Enter):
		if m.filter() != "" {
			// Leave the search results for the token's place in the tree
			m.clearSearch()
		} else if current.group {
			m.expanded[current.path] = !m.expanded[current.path]
			m.selectPath(current.path)
		}

	case key.Matches(msg, m.keys.Right):
		if current.group && !m.expanded[current.path] {
			m.expanded[current.path] = true
			m.selectPath(current.path)
		}

	case key.Matches(msg, m.keys.Left):
		if current.group && m.expanded[current.path] {
			m.expanded[current.path] = false
			m.selectPath(current.path)
		} else if parent := parentPath(current.path); parent != "" && m.filter() == "" {
			m.selectPath(parent)
		}
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.clearSearch()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m *Model) handleReload(msg reloadMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("reload failed", "path", m.path, "error", msg.err)
		m.status = fmt.Sprintf("reload failed: %v", msg.err)
		return m, nil
	}

	m.logger.Info("reloaded token file", "path", m.path)
	m.tree = msg.tree
	m.status = "reloaded"

	if current, ok := m.selected(); ok && m.filter() == "" {
		m.selectPath(current.path)
	} else {
		m.refresh()
	}
	return m, nil
}

func (m *Model) filter() string {
	return strings.TrimSpace(m.search.Value())
}

func (m *Model) clearSearch() {
	current, ok := m.selected()
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	if ok {
		m.selectPath(current.path)
	} else {
		m.refresh()
	}
}

func (m *Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// selectPath moves the cursor to path, expanding the groups above it. When
// path is no longer in the tree the cursor stays where it was.
func (m *Model) selectPath(path string) {
	if m.filter() == "" {
		expandAncestors(m.expanded, path)
	}
	m.rows = visibleRows(m.tree, m.expanded, m.filter())
	if i := indexOf(m.rows, path); i >= 0 {
		m.cursor = i
	}
	m.refresh()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.refresh()
}

// refresh rebuilds the visible rows, keeps the cursor in range and
// re-renders the details of the selected row
func (m *Model) refresh() {
	m.rows = visibleRows(m.tree, m.expanded, m.filter())
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))

	if listHeight := m.listHeight(); listHeight > 0 {
		if m.cursor < m.offset {
			m.offset = m.cursor
		} else if m.cursor >= m.offset+listHeight {
			m.offset = m.cursor - listHeight + 1
		}
	}
	m.offset = max(0, min(m.offset, len(m.rows)-1))

	current, _ := m.selected()
	m.details.SetContent(RenderDetails(m.tree, current.path))
	m.details.GotoTop()
}

func (m *Model) treeWidth() int {
	return max(m.width*2/5, 20)
}

func (m *Model) bodyHeight() int {
	return max(m.height-headerHeight-helpHeight-borderSize, 1)
}

func (m *Model) listHeight() int {
	if m.height == 0 {
		return 0
	}
	return max(m.bodyHeight()-1, 1) // one line for the search box
}

func (m *Model) resize() {
	m.details.Width = max(m.width-m.treeWidth()-2*borderSize-2*paddingSize, 10)
	m.details.Height = m.bodyHeight()
	m.refresh()
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	treeStyle, detailsStyle := FocusedPaneStyle, PaneStyle
	if m.focus == DetailsPane {
		treeStyle, detailsStyle = PaneStyle, FocusedPaneStyle
	}

	innerTree := m.treeWidth() - paddingSize
	treeContent := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSearch(),
		renderRows(m.rows, m.expanded, m.cursor, m.offset, m.listHeight(), innerTree),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		treeStyle.Width(m.treeWidth()).Height(m.bodyHeight()).Render(treeContent),
		detailsStyle.Height(m.bodyHeight()).Render(m.details.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderHelp(),
	)
}

func (m *Model) renderSearch() string {
	if m.searching || m.filter() != "" {
		return m.search.View()
	}
	return MutedStyle.Render("/ to search")
}

func (m *Model) renderHeader() string {
	title := TitleStyle.Render("🔗 tokgraph")
	if m.path != "" {
		title += " " + MutedStyle.Render(filepath.Base(m.path))
	}

	if m.status != "" {
		style := GoodStyle
		if strings.HasPrefix(m.status, "reload failed") {
			style = CriticalStyle
		}
		title += "  " + style.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Repeat("─", m.width),
	)
}

func (m *Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.shortHelp() {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return HelpBarStyle.Width(m.width).Render(strings.Join(parts, " • "))
}

// StartTUI browses tree in the terminal. With opts.Watch set the file at
// opts.Path is reloaded whenever it changes.
func StartTUI(tree *tokens.Tree, opts Options) error {
	model := initialModel(tree, opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(gctx),
	)

	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return err
	})

	if opts.Watch {
		g.Go(func() error {
			return loader.Watch(gctx, opts.Path, opts.Debounce, model.logger, func(t *tokens.Tree, err error) {
				program.Send(reloadMsg{tree: t, err: err})
			})
		})
	}

	return g.Wait()
}
