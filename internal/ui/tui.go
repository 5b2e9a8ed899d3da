// Package ui provides the full-screen terminal interface.
package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoapp/internal/config"
	"todoapp/internal/output"
	"todoapp/internal/session"
	"todoapp/internal/todo"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Run starts the TUI over sess and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, cfg *config.Config, sess *session.Session) error {
	m := newModel(ctx, cfg, sess)
	defer m.close()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

type model struct {
	ctx  context.Context
	cfg  *config.Config
	sess *session.Session

	// snapshot of the store, refreshed on every notification
	items  []todo.Item
	total  int
	filter todo.Filter

	cursor  int
	adding  bool
	input   string
	loading bool
	loadErr error

	unsubscribe func()
}

// loadedMsg carries the result of the initial fetch back to Update.
type loadedMsg struct {
	items []todo.Item
	err   error
}

func newModel(ctx context.Context, cfg *config.Config, sess *session.Session) *model {
	m := &model{ctx: ctx, cfg: cfg, sess: sess}
	m.unsubscribe = sess.Store.Subscribe(m.refresh)
	m.refresh()
	return m
}

func (m *model) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *model) Init() tea.Cmd {
	return m.startFetch()
}

func (m *model) startFetch() tea.Cmd {
	m.loading = true

	ctx, cfg, sess := m.ctx, m.cfg, m.sess
	return func() tea.Msg {
		fetchCtx, cancel := ctx, context.CancelFunc(func() {})
		if cfg.FetchTimeout > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
		}
		defer cancel()

		items, err := sess.Fetch(fetchCtx)
		return loadedMsg{items: items, err: err}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.loadErr = msg.err
		m.sess.Apply(msg.items, msg.err)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m *model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := m.sess.Store

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a":
		m.adding = true
		m.input = ""
	case " ", "x":
		if it, ok := m.selected(); ok {
			store.Toggle(it.ID)
		}
	case "d":
		if it, ok := m.selected(); ok {
			store.Delete(it.ID)
		}
	case "f":
		store.SetFilter(store.Filter().Next())
	case "1":
		store.SetFilter(todo.FilterAll)
	case "2":
		store.SetFilter(todo.FilterCompleted)
	case "3":
		store.SetFilter(todo.FilterTodo)
	case "r":
		if !m.loading {
			return m, m.startFetch()
		}
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	}
	return m, nil
}

func (m *model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.adding = false
		m.input = ""
	case tea.KeyEnter:
		// Blank input cannot be submitted.
		if strings.TrimSpace(m.input) == "" {
			return m, nil
		}
		title := m.input
		m.adding = false
		m.input = ""
		m.sess.Store.Add(title)
		m.cursor = len(m.items) - 1
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// refresh copies the filtered view out of the store.
func (m *model) refresh() {
	store := m.sess.Store
	m.items = store.SelectFiltered()
	m.total = store.Len()
	m.filter = store.Filter()

	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) selected() (todo.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return todo.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b)
	writeFilters(&b, m.filter, len(m.items), m.total)

	switch {
	case m.loading:
		b.WriteString("Loading...\n\n")
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render("Error: "+m.loadErr.Error()) + "\n")
		b.WriteString(helpStyle.Render("Press r to retry") + "\n\n")
	}

	writeItems(&b, m.items, m.cursor)

	if m.adding {
		fmt.Fprintf(&b, "New item: %s_\n", m.input)
		b.WriteString(helpStyle.Render("enter add • esc cancel") + "\n")
		return b.String()
	}
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Todos") + "\n\n")
}

func writeFilters(b *strings.Builder, active todo.Filter, shown, total int) {
	tabs := make([]string, 0, len(todo.Filters))
	for i, f := range todo.Filters {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == active {
			tabs = append(tabs, activeStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	fmt.Fprintf(b, "   (%d of %d)\n\n", shown, total)
}

func writeItems(b *strings.Builder, items []todo.Item, cursor int) {
	if len(items) == 0 {
		b.WriteString(inactiveStyle.Render("  no items") + "\n\n")
		return
	}
	for i, it := range items {
		title := output.NormalizeTitle(it.Title)
		if it.Completed {
			title = doneStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s", output.Mark(it), title)
		if i == cursor {
			b.WriteString("> " + cursorStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(helpStyle.Render("a add • space toggle • d delete • f filter • r reload • q quit") + "\n")
}
