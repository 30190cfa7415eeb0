package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForPanel = 80  // Minimum width to show the mode panel
	panelWidth       = 22  // Width of the mode panel
	maxRuns          = 100 // Best runs loaded into the table
	recentRuns       = 5   // Runs listed under the table
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the best and latest runs of each game mode.
type ScoreboardModel struct {
	modes      []registry.GameInfo
	modeCursor int
	store      *storage.Store // Optional
	best       map[string]int // High score per mode

	runs   []storage.Run // Best runs of the selected mode
	recent []storage.Run
	stats  *storage.GameStats

	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	theme     Theme
	width     int
	height    int
	showPanel bool

	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		modes:     registry.List(),
		store:     store,
		best:      make(map[string]int),
		keys:      DefaultScoreboardKeyMap(),
		help:      h,
		theme:     GetTheme(),
		width:     width,
		height:    height,
		showPanel: width >= minWidthForPanel,
	}

	if store != nil {
		if all, err := store.GetAllGamesStats(); err == nil {
			for id, st := range all {
				m.best[id] = st.HighScore
			}
		}
	}

	m.table = m.createTable()
	if len(m.modes) > 0 {
		m.loadRuns(m.modes[0].ID)
	}

	return m
}

// createTable creates a new table sized to the window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 7},
		{Title: "Level", Width: 14},
		{Title: "Result", Width: 9},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4 // Margins
	if m.showPanel {
		tableWidth -= panelWidth + 3 // Panel + border + gap
	}
	// Give spare width to the level column
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if extra := tableWidth - used; extra > 0 {
		columns[2].Width += min(extra, 12)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10-recentRuns, 3)), // Leave room for header, runs, help and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = m.theme.MenuItemActive
	t.SetStyles(s)

	return t
}

// loadRuns loads the best runs, statistics and latest runs of a mode.
func (m *ScoreboardModel) loadRuns(gameID string) {
	m.runs, m.recent, m.stats = nil, nil, nil
	if m.store != nil {
		if runs, err := m.store.TopRuns(gameID, maxRuns); err == nil {
			m.runs = runs
		}
		if recent, err := m.store.RecentRuns(gameID, recentRuns); err == nil {
			m.recent = recent
		}
		if stats, err := m.store.GetGameStats(gameID); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Score),
			r.LevelID,
			outcomeLabel(r.Outcome),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func outcomeLabel(o storage.Outcome) string {
	switch o {
	case storage.OutcomeWon:
		return "won"
	case storage.OutcomeGameOver:
		return "dead"
	case storage.OutcomeQuit:
		return "quit"
	}
	return string(o)
}

// selectMode moves the mode cursor by delta, wrapping around.
func (m *ScoreboardModel) selectMode(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.modeCursor = (m.modeCursor + delta + len(m.modes)) % len(m.modes)
	m.loadRuns(m.modes[m.modeCursor].ID)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode):
			m.selectMode(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.selectMode(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showPanel = m.width >= minWidthForPanel
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Scrolling and anything else goes to the table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "BEST RUNS"
	if len(m.modes) > 0 {
		title = fmt.Sprintf("BEST RUNS - %s", m.modes[m.modeCursor].Title)
	}
	b.WriteString(centerText(m.theme.MenuTitle.Render(title), m.width))
	b.WriteString("\n")
	if line := m.statsLine(); line != "" {
		b.WriteString(centerText(m.theme.MenuDescription.Render(line), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	runsBox := boxStyle.Render(m.renderTableContent())

	if m.showPanel {
		panel := boxStyle.Width(panelWidth).Render(m.renderModePanel())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panel, "  ", runsBox))
	} else {
		b.WriteString(centerText(m.renderModeTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(runsBox)
	}
	b.WriteString("\n")

	if len(m.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderRecent())
	}

	b.WriteString("\n")
	b.WriteString(m.theme.MenuControls.Render(m.help.View(m.keys)))

	return b.String()
}

// renderModePanel lists the modes with their best score.
func (m ScoreboardModel) renderModePanel() string {
	var b strings.Builder
	b.WriteString("Modes\n")
	b.WriteString(strings.Repeat("-", panelWidth-4))
	b.WriteString("\n")

	for i, mode := range m.modes {
		cursor := "  "
		style := m.theme.MenuItemNormal
		if i == m.modeCursor {
			cursor = "> "
			style = m.theme.MenuItemActive
		}
		b.WriteString(style.Render(cursor + mode.Title))
		b.WriteString("\n")
		b.WriteString(m.theme.MenuDescription.Render(fmt.Sprintf("    best %d", m.best[mode.ID])))
		b.WriteString("\n")
	}
	return b.String()
}

// renderModeTabs shows the selected mode on narrow terminals.
func (m ScoreboardModel) renderModeTabs() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.theme.MenuItemActive.Render(fmt.Sprintf("< %s >", m.modes[m.modeCursor].Title))
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		return m.theme.MenuDescription.Italic(true).Padding(2, 4).
			Render("No runs recorded yet.\nDig up some gold!")
	}
	return m.table.View()
}

// statsLine summarizes the selected mode.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	line := fmt.Sprintf("Games: %d  Best: %d  Avg: %.0f  Wins: %d",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore, m.stats.Wins)
	if !m.stats.LastPlayed.IsZero() {
		line += "  Last: " + m.stats.LastPlayed.Format("Jan 02 15:04")
	}
	return line
}

// renderRecent lists the latest runs below the table.
func (m ScoreboardModel) renderRecent() string {
	var b strings.Builder
	b.WriteString(m.theme.MenuDescription.Bold(true).Render("Latest"))
	b.WriteString("\n")
	for _, r := range m.recent {
		line := fmt.Sprintf("%-12s %-14s %6d pts %6d ticks  %s",
			r.CreatedAt.Format("Jan 02 15:04"), r.LevelID, r.Score, r.Ticks, outcomeLabel(r.Outcome))
		b.WriteString(m.theme.MenuDescription.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
