package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/games/digger"
	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/replay"
	"github.com/vovakirdan/digger/internal/storage"
)

// resizer is implemented by games that adapt to a new window size without
// losing progress.
type resizer interface {
	Resize(w, h int)
}

// recordable is implemented by games that can feed a replay recorder.
type recordable interface {
	SetRecorder(r digger.TickRecorder)
}

// ModelOption customizes a Model.
type ModelOption func(*Model)

// WithReplayDir records the session into a new file under dir.
func WithReplayDir(dir string) ModelOption {
	return func(m *Model) {
		m.replayDir = dir
	}
}

// WithBackToMenu lets B/Esc leave a finished or paused game instead of
// being ignored. Used by menu-driven sessions.
func WithBackToMenu() ModelOption {
	return func(m *Model) {
		m.allowBack = true
	}
}

// WithLogger sets the logger for storage and recording failures.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		m.logger = l
	}
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	logger     *log.Logger

	replayDir string
	recorder  *replay.Recorder
	allowBack bool

	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current finished run has been stored
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	if m.replayDir != "" {
		m.startRecording()
	}

	return m
}

// startRecording attaches a replay recorder to the game.
// It runs before Init so the first level header is captured.
func (m *Model) startRecording() {
	g, ok := m.game.(recordable)
	if !ok {
		return
	}

	name := fmt.Sprintf("%s_%s%s", m.game.ID(), time.Now().Format("20060102_150405"), replay.Extension)
	rec, err := replay.Create(filepath.Join(m.replayDir, name), m.game.ID())
	if err != nil {
		m.logger.Warn("recording disabled", "error", err)
		return
	}
	m.recorder = rec
	g.SetRecorder(rec)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	if m.allowBack && m.inputFrame.Has(core.ActionBack) && (m.gameState.Finished() || m.gameState.Paused) {
		m.leave()
		m.backToMenu = true
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.Finished() {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick runs one game frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Store each finished run once; a restart clears the flag.
	if m.gameState.Finished() && !m.runSaved {
		outcome := storage.OutcomeGameOver
		if m.gameState.Won {
			outcome = storage.OutcomeWon
		}
		m.saveRun(outcome)
		m.runSaved = true
	} else if !m.gameState.Finished() {
		m.runSaved = false
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// leave stores an unfinished run and closes the recording.
func (m *Model) leave() {
	if !m.gameState.Finished() && m.gameState.Ticks > 0 {
		m.saveRun(storage.OutcomeQuit)
	}
	m.closeRecorder()
}

// saveRun records the score and the run summary.
func (m *Model) saveRun(outcome storage.Outcome) {
	if m.store == nil {
		return
	}

	st := m.gameState
	if st.Score > 0 {
		if _, err := m.store.SaveScore(m.game.ID(), st.Score); err != nil {
			m.logger.Warn("could not save score", "error", err)
		}
	}

	run := storage.Run{
		GameID:  m.game.ID(),
		LevelID: st.Level,
		Seed:    m.config.Seed,
		Ticks:   st.Ticks,
		Score:   st.Score,
		Outcome: outcome,
	}
	if m.recorder != nil {
		run.ReplayPath = m.recorder.Path()
	}
	if _, err := m.store.SaveRun(run); err != nil {
		m.logger.Warn("could not save run", "error", err)
	}
}

func (m *Model) closeRecorder() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Close(); err != nil {
		m.logger.Warn("could not finish recording", "path", m.recorder.Path(), "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".digger", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state after the last frame.
func (m Model) State() core.GameState {
	return m.gameState
}

// ReplayPath returns the recording file, or "" when not recording.
func (m Model) ReplayPath() string {
	if m.recorder == nil {
		return ""
	}
	return m.recorder.Path()
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) error {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok && !m.quitting {
		// Interrupted without a quit key
		m.leave()
	}
	return err
}
