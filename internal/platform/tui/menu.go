package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/games/digger"
	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/storage"
)

// MenuItem is a selectable entry of the level picker.
type MenuItem struct {
	GameID  string
	LevelID string // Campaign start level; empty for random maps
	Title   string
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items        []MenuItem
	cursor       int
	scrollOffset int
	width        int
	height       int
	best         map[string]int // High score per game ID
	config       core.RuntimeConfig
	keyMapper    *KeyMapper
	theme        Theme

	quitting       bool
	selected       *MenuItem // Set when user selects an entry
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// MenuItems builds the picker entries: one campaign start per level, then
// the endless random mode.
func MenuItems(lvls []levels.Level) []MenuItem {
	items := make([]MenuItem, 0, len(lvls)+1)
	for i, lvl := range lvls {
		items = append(items, MenuItem{
			GameID:  digger.IDCampaign,
			LevelID: lvl.ID,
			Title:   fmt.Sprintf("%2d. %s", i+1, lvl.Name),
		})
	}
	items = append(items, MenuItem{
		GameID: digger.IDRandom,
		Title:  "Random maps",
	})
	return items
}

// NewMenuModel creates a new menu model over the given campaign levels.
func NewMenuModel(lvls []levels.Level, store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	best := make(map[string]int)
	if store != nil {
		for _, id := range []string{digger.IDCampaign, digger.IDRandom} {
			if high, err := store.HighScore(id); err == nil {
				best[id] = high
			}
		}
	}

	return MenuModel{
		items:     MenuItems(lvls),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		best:      best,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		theme:     GetTheme(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.updateScroll()
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.updateScroll()
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// visibleItems returns how many entries fit between header and footer.
func (m MenuModel) visibleItems() int {
	return max(m.height-10, 3)
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *MenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("D I G G E R"), m.width))
	b.WriteString("\n\n")

	subtitle := fmt.Sprintf("Best: campaign %d  random %d", m.best[digger.IDCampaign], m.best[digger.IDRandom])
	b.WriteString(centerText(m.theme.MenuDescription.Render(subtitle), m.width))
	b.WriteString("\n\n")

	end := min(m.scrollOffset+m.visibleItems(), len(m.items))
	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("..."), m.width))
		b.WriteString("\n")
	}
	for i := m.scrollOffset; i < end; i++ {
		cursor := "  "
		style := m.theme.MenuItemNormal
		if i == m.cursor {
			cursor = "> "
			style = m.theme.MenuItemActive
		}
		b.WriteString(centerText(style.Render(cursor+m.items[i].Title), m.width))
		b.WriteString("\n")
	}
	if end < len(m.items) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(m.theme.MenuControls.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width. Styled text is measured
// without its escape sequences.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	LevelID         string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// result converts the final menu state.
func (m MenuModel) result() MenuResult {
	res := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		res.WantsScoreboard = true
	case m.Selected() != nil:
		res.GameID = m.Selected().GameID
		res.LevelID = m.Selected().LevelID
	default:
		res.Quit = true
	}
	return res
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(lvls []levels.Level, store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(lvls, store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.result(), nil
}
