// Package ui is the interactive search screen of bookish-search.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	pkglog "github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/optimistic"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchstate"
)

const requestTimeout = 10 * time.Second

// Bookmarks is the bookmark API used by the screen.
type Bookmarks interface {
	ListBookmarks(ctx context.Context) ([]searchapi.Bookmark, error)
	AddBookmark(ctx context.Context, item searchapi.Item) (*searchapi.Bookmark, error)
	RemoveBookmark(ctx context.Context, t searchapi.ItemType, id string) error
}

type (
	historyMsg         []string
	bookmarksLoadedMsg struct {
		keys []string
		err  error
	}
	bookmarkSavedMsg struct {
		key   string
		saved bool
		err   error
	}
)

// Model is the bubbletea model of the search screen.
type Model struct {
	mgr         *searchstate.Manager
	bookmarks   Bookmarks
	updates     <-chan searchstate.State
	unsubscribe func()

	input   textinput.Model
	spinner spinner.Model
	styles  Styles

	state   searchstate.State
	recent  []string
	cursor  int
	marked  map[string]bool
	pending map[string]optimistic.Mutation[bool]
	notice  string
	width   int
	height  int
}

// New creates the screen for mgr. bookmarks may be nil when the user is
// not signed in.
func New(mgr *searchstate.Manager, bookmarks Bookmarks) Model {
	in := textinput.New()
	in.Placeholder = "Search books, authors, clubs, readers…"
	in.Prompt = "› "
	in.KeyMap.NextSuggestion.SetEnabled(false)
	in.KeyMap.PrevSuggestion.SetEnabled(false)
	in.KeyMap.AcceptSuggestion.SetEnabled(false)
	in.Focus()

	updates, unsubscribe := subscribe(mgr)
	return Model{
		mgr:         mgr,
		bookmarks:   bookmarks,
		updates:     updates,
		unsubscribe: unsubscribe,
		input:       in,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:      DefaultStyles(),
		state:       mgr.State(),
		marked:      make(map[string]bool),
		pending:     make(map[string]optimistic.Mutation[bool]),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, waitForState(m.updates), m.loadHistory()}
	if m.bookmarks != nil {
		cmds = append(cmds, m.loadBookmarks())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case stateMsg:
		prev := m.state
		m.state = searchstate.State(msg)
		if m.cursor >= len(m.state.Results) {
			m.cursor = max(len(m.state.Results)-1, 0)
		}
		cmds := []tea.Cmd{waitForState(m.updates)}
		if prev.Phase != m.state.Phase && m.state.Phase == searchstate.PhaseLoaded {
			cmds = append(cmds, m.loadHistory())
		}
		return m, tea.Batch(cmds...)

	case historyMsg:
		m.recent = msg
		return m, nil

	case bookmarksLoadedMsg:
		if msg.err != nil {
			m.notice = "Could not load bookmarks"
			return m, nil
		}
		for _, k := range msg.keys {
			m.marked[k] = true
		}
		return m, nil

	case bookmarkSavedMsg:
		return m.settleBookmark(msg), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.unsubscribe()
		return m, tea.Quit

	case tea.KeyTab, tea.KeyShiftTab:
		step := 1
		if msg.Type == tea.KeyShiftTab {
			step = len(searchapi.Categories) - 1
		}
		m.mgr.ChangeCategory(nextCategory(m.state.Category, step))
		m.cursor = 0
		return m, nil

	case tea.KeyEnter:
		m.mgr.Submit(m.input.Value())
		return m, nil

	case tea.KeyEsc:
		m.input.SetValue("")
		m.cursor = 0
		m.mgr.Clear()
		return m, m.loadHistory()

	case tea.KeyCtrlN:
		m.mgr.LoadMore()
		return m, nil

	case tea.KeyCtrlR:
		m.mgr.Refresh()
		return m, nil

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.cursor < len(m.state.Results)-1 {
			m.cursor++
		} else if m.state.HasMore() {
			m.mgr.LoadMore()
		}
		return m, nil

	case tea.KeyCtrlB:
		return m.toggleBookmark()
	}

	before := m.input.Value()
	cmd := m.updateInput(msg)
	if v := m.input.Value(); v != before {
		m.notice = ""
		m.mgr.SetQuery(v)
	}
	return m, cmd
}

// updateInput feeds msg to the text input. Multi-rune events go in one rune
// at a time so pasted words like "down" never match an input key binding.
func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	if msg.Type != tea.KeyRunes || len(msg.Runes) < 2 {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	cmds := make([]tea.Cmd, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func nextCategory(c searchapi.Category, step int) searchapi.Category {
	for i, known := range searchapi.Categories {
		if known == c {
			return searchapi.Categories[(i+step)%len(searchapi.Categories)]
		}
	}
	return searchapi.CategoryAll
}

// toggleBookmark flips the mark on the selected row right away and saves
// it in the background.
func (m Model) toggleBookmark() (tea.Model, tea.Cmd) {
	if m.bookmarks == nil {
		m.notice = "Sign in to save bookmarks"
		return m, nil
	}
	if m.cursor >= len(m.state.Results) {
		return m, nil
	}
	item := m.state.Results[m.cursor]
	key := item.Key()
	if _, busy := m.pending[key]; busy {
		return m, nil
	}

	was := m.marked[key]
	mut := optimistic.Apply(was, !was)
	m.pending = cloneMap(m.pending)
	m.pending[key] = mut
	m.marked = cloneMap(m.marked)
	m.marked[key] = mut.Current()

	api := m.bookmarks
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if was {
			err = api.RemoveBookmark(ctx, item.Type, item.ID)
		} else {
			_, err = api.AddBookmark(ctx, item)
		}
		return bookmarkSavedMsg{key: key, saved: !was, err: err}
	}
}

func (m Model) settleBookmark(msg bookmarkSavedMsg) Model {
	mut, ok := m.pending[msg.key]
	if !ok {
		return m
	}

	var (
		marked bool
		err    error
	)
	if msg.err != nil {
		marked, _, err = mut.Rollback()
		m.notice = "Bookmark not saved: " + msg.err.Error()
		l := pkglog.L()
		l.Warn().Err(msg.err).Str("item", msg.key).Msg("bookmark toggle failed")
	} else {
		marked, _, err = mut.Confirm(msg.saved)
	}
	if err != nil {
		return m
	}

	m.pending = cloneMap(m.pending)
	delete(m.pending, msg.key)
	m.marked = cloneMap(m.marked)
	m.marked[msg.key] = marked
	return m
}

func (m Model) loadHistory() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		recent, err := mgr.RecentSearches(ctx)
		if err != nil {
			return historyMsg(nil)
		}
		return historyMsg(recent)
	}
}

func (m Model) loadBookmarks() tea.Cmd {
	api := m.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		list, err := api.ListBookmarks(ctx)
		if err != nil {
			return bookmarksLoadedMsg{err: err}
		}
		keys := make([]string, len(list))
		for i, b := range list {
			keys[i] = b.Key()
		}
		return bookmarksLoadedMsg{keys: keys}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	s := m.state
	switch {
	case s.Err != "":
		b.WriteString(m.styles.Error.Render(s.Err))
		b.WriteString("\n")
	case s.Loading:
		b.WriteString(m.spinner.View() + m.styles.Status.Render(" Searching…"))
		b.WriteString("\n")
	case s.Phase == searchstate.PhaseDebouncing:
		b.WriteString(m.styles.Status.Render("…"))
		b.WriteString("\n")
	case s.NoResults():
		noun := "results"
		if s.Category != searchapi.CategoryAll {
			noun = strings.ToLower(s.Category.Label())
		}
		b.WriteString(m.styles.Status.Render(fmt.Sprintf("No %s found for %q", noun, s.Query)))
		b.WriteString("\n")
	case !s.HasSearched:
		b.WriteString(m.renderRecent())
	}

	if len(s.Suggestions) > 0 && s.HasSearched {
		b.WriteString(m.styles.Subtitle.Render("Try: " + strings.Join(s.Suggestions, ", ")))
		b.WriteString("\n")
	}

	b.WriteString(m.renderResults())

	if len(s.Results) > 0 {
		status := fmt.Sprintf("%d of %d", len(s.Results), max(s.Total, len(s.Results)))
		switch {
		case s.LoadingMore:
			status += " · " + m.spinner.View() + " loading more"
		case s.HasMore():
			status += " · ↓ for more"
		}
		b.WriteString("\n" + m.styles.Status.Render(status) + "\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.Error.Render(m.notice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("tab category · enter search · ↑/↓ move · ctrl+n more · ctrl+r refresh · ctrl+b bookmark · esc clear · ctrl+c quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(searchapi.Categories))
	for i, c := range searchapi.Categories {
		style := m.styles.Tab
		if c == m.state.Category {
			style = m.styles.ActiveTab
		}
		tabs[i] = style.Render(c.Label())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderRecent() string {
	if len(m.recent) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Recent searches"))
	b.WriteString("\n")
	for _, q := range m.recent {
		b.WriteString(m.styles.Row.Render(q))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderResults() string {
	var b strings.Builder
	for i, item := range m.visibleResults() {
		line := item.Title
		if m.marked[item.Key()] {
			line = m.styles.Mark.Render("★ ") + line
		}
		if item.Subtitle != "" {
			line += " " + m.styles.Subtitle.Render(item.Subtitle)
		}
		if m.state.Category == searchapi.CategoryAll {
			line += " " + m.styles.Subtitle.Render("["+string(item.Type)+"]")
		}

		style := m.styles.Row
		if i == m.cursor-m.offset() {
			style = m.styles.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// visibleResults is the window of results that fits the terminal.
func (m Model) visibleResults() []searchapi.Item {
	rows := m.rows()
	start := m.offset()
	end := min(start+rows, len(m.state.Results))
	return m.state.Results[start:end]
}

func (m Model) rows() int {
	if m.height <= 0 {
		return max(len(m.state.Results), 1)
	}
	return max(m.height-10, 3)
}

func (m Model) offset() int {
	rows := m.rows()
	if m.cursor < rows {
		return 0
	}
	return m.cursor - rows + 1
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
