// Package digger adapts the tile simulation to the platform game interface.
// It owns pacing, level progression and terminal conditions; the rules of a
// single tick live in the sim package.
package digger

import (
	"errors"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/games/digger/sim"
	"github.com/vovakirdan/digger/internal/registry"
)

// Game IDs.
const (
	IDCampaign = "digger"
	IDRandom   = "digger_random"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign" // Play through the level list, win at the end
	ModeRandom   Mode = "random"   // Endless generated maps
)

// hudHeight is the number of screen rows above the board.
const hudHeight = 2

var errNoLevels = errors.New("digger: no levels to play")

// TickRecorder receives every simulation tick, for replays.
type TickRecorder interface {
	// BeginLevel is called before the first tick of each level.
	BeginLevel(lvl levels.Level, seed int64) error
	// RecordTick is called after each simulation tick.
	RecordTick(tick uint64, dir sim.Dir, score int, digest string) error
}

// Package-level settings applied by the CLI before games are created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	levelsDir        string
	startLevel       string
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset by name.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetLevelsDir overrides the configured campaign level directory.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetStartLevel selects the campaign level to start from.
func SetStartLevel(id string) {
	startLevel = id
}

// Option customizes a game instance.
type Option func(*Game)

// WithConfig uses cfg instead of loading configuration from disk.
func WithConfig(cfg config.DiggerConfig) Option {
	return func(g *Game) {
		cfg.Normalize()
		g.fixedCfg = &cfg
	}
}

// WithLevels plays the given levels instead of loading the campaign.
func WithLevels(lvls []levels.Level) Option {
	return func(g *Game) {
		g.fixedLevels = lvls
	}
}

// WithRecorder attaches a tick recorder.
func WithRecorder(r TickRecorder) Option {
	return func(g *Game) {
		g.recorder = r
	}
}

// Game implements the platform game over the Digger simulation.
type Game struct {
	mode Mode

	// Injected by options
	fixedCfg    *config.DiggerConfig
	fixedLevels []levels.Level
	recorder    TickRecorder
	recordErr   error

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.DiggerConfig
	difficulty *config.DifficultyManager

	// Levels
	campaign   []levels.Level
	levelIndex int
	level      levels.Level
	seed       int64 // Seed of the current generated map
	loadErr    error

	// Simulation
	sim        *sim.Sim
	baseScore  int    // Score banked from previous levels
	banked     bool   // The current level's score is included in baseScore
	totalTicks uint64 // Simulation ticks across all levels
	hadLoot    bool   // Level started with gold or sacks

	// Pacing
	frame      uint64
	latched    sim.Dir
	moveTicker int
	pace       int

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool

	// Game state flags
	gameOver        bool
	won             bool
	paused          bool
	levelCleared    bool
	levelClearTicks int
}

// New creates a campaign mode game.
func New(opts ...Option) *Game {
	return newGame(ModeCampaign, opts)
}

// NewRandom creates a game over endless generated maps.
func NewRandom(opts ...Option) *Game {
	return newGame(ModeRandom, opts)
}

func newGame(mode Mode, opts []Option) *Game {
	g := &Game{mode: mode}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func init() {
	registry.Register(IDCampaign, func() registry.Game {
		return New()
	})
	registry.Register(IDRandom, func() registry.Game {
		return NewRandom()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeRandom {
		return IDRandom
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeRandom {
		return "Digger (Random)"
	}
	return "Digger"
}

// SetRecorder attaches a tick recorder. It takes effect from the next level.
func (g *Game) SetRecorder(r TickRecorder) {
	g.recorder = r
}

// RecorderErr returns the first error reported by the recorder.
// Recording stops after an error; play continues.
func (g *Game) RecorderErr() error {
	return g.recordErr
}

// LoadErr returns the error that prevented the game from loading a level.
func (g *Game) LoadErr() error {
	return g.loadErr
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.screenW = runtime.ScreenW
	g.screenH = runtime.ScreenH

	g.cfg = g.loadConfig()
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)

	g.frame = 0
	g.baseScore = 0
	g.totalTicks = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.loadErr = nil

	switch g.mode {
	case ModeRandom:
		g.seed = runtime.Seed
		g.levelIndex = 0
	default:
		g.campaign, g.loadErr = g.loadCampaign()
		g.levelIndex = g.startIndex()
	}

	g.loadLevel()
}

// loadConfig returns the injected config or loads it from disk.
func (g *Game) loadConfig() config.DiggerConfig {
	if g.fixedCfg != nil {
		return *g.fixedCfg
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Embedded()
	}
	config.ApplyPreset(&cfg, difficultyPreset)
	if levelsDir != "" {
		cfg.Levels.Dir = levelsDir
	}
	return cfg
}

// loadCampaign returns the injected levels or loads them from the configured directory.
func (g *Game) loadCampaign() ([]levels.Level, error) {
	if len(g.fixedLevels) > 0 {
		return g.fixedLevels, nil
	}

	return levels.LoadCampaign(g.cfg.Levels.Dir, nil)
}

// startIndex resolves the starting level from the runtime config, the CLI
// selection and the config file, in that order.
func (g *Game) startIndex() int {
	for _, id := range []string{g.runtime.Level, startLevel, g.cfg.Levels.Start} {
		if id == "" {
			continue
		}
		for i, lvl := range g.campaign {
			if lvl.ID == id {
				return i
			}
		}
	}
	return 0
}

// loadLevel builds the simulation for the current level.
func (g *Game) loadLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0
	g.latched = sim.DirNone
	g.moveTicker = 0
	g.sim = nil

	lvl, err := g.currentLevel()
	if err != nil {
		g.loadErr = err
		return
	}
	s, err := lvl.NewSim()
	if err != nil {
		g.loadErr = err
		return
	}

	g.level = lvl
	g.sim = s
	g.banked = false
	g.hadLoot = s.Count(sim.KindGold) > 0 || s.Count(sim.KindSack) > 0
	g.updatePace()
	g.checkScreenSize()

	if g.recorder != nil && g.recordErr == nil {
		if err := g.recorder.BeginLevel(lvl, g.seed); err != nil {
			g.recordErr = err
		}
	}
}

// currentLevel returns the level definition to play next.
func (g *Game) currentLevel() (levels.Level, error) {
	if g.mode == ModeRandom {
		score := g.Score()
		p := levels.GenParams{
			Width:       g.cfg.Generator.Width,
			Height:      g.cfg.Generator.Height,
			MaxMonsters: g.difficulty.MonsterCap(g.cfg.Generator.MaxMonsters, score, g.totalTicks),
			Seed:        uint64(g.seed),
		}
		return levels.Generate(p)
	}

	if g.loadErr != nil {
		return levels.Level{}, g.loadErr
	}
	if g.levelIndex < 0 || g.levelIndex >= len(g.campaign) {
		return levels.Level{}, errNoLevels
	}
	return g.campaign[g.levelIndex], nil
}

// updatePace recomputes frames per simulation tick.
func (g *Game) updatePace() {
	base := g.cfg.Tick.MoveEveryTicks
	if g.level.MoveEveryTicks > 0 {
		base = g.level.MoveEveryTicks
	}
	g.pace = g.difficulty.Pace(base, g.cfg.Tick.MinMoveEveryTicks, g.Score(), g.totalTicks)
}

// Resize updates the screen dimensions.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.checkScreenSize()
}

// checkScreenSize sets tooSmall when the board and HUD do not fit.
// A zero dimension means a headless game and disables the check.
func (g *Game) checkScreenSize() {
	if g.screenW == 0 || g.screenH == 0 || g.sim == nil {
		g.tooSmall = false
		return
	}
	w, h := g.requiredSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// requiredSize returns the minimum screen size for the current level.
func (g *Game) requiredSize() (int, int) {
	return g.sim.Width() + 2, g.sim.Height() + hudHeight + 2
}

// Step advances the game by one frame.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.frame++

	if input.Has(core.ActionRestart) && (g.gameOver || g.won) {
		if g.mode == ModeRandom {
			g.runtime.Seed = g.seed + 1
		}
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}

	if g.gameOver || g.won || g.paused || g.tooSmall || g.sim == nil {
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= g.cfg.Tick.LevelClearFrames {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	// The latest direction of the frame wins and stays latched until the next tick.
	if mv := input.LastMove(); mv != core.ActionNone {
		g.latched = dirFor(mv)
	}

	g.moveTicker++
	if g.moveTicker < g.pace {
		return core.StepResult{State: g.State()}
	}
	g.moveTicker = 0
	g.tick()

	return core.StepResult{State: g.State(), Advanced: true}
}

// tick runs one simulation tick with the latched direction.
func (g *Game) tick() {
	dir := g.latched
	g.latched = sim.DirNone

	res := g.sim.Step(dir)
	g.totalTicks++
	g.record(res)

	if !res.Status.PlayerAlive {
		g.sim.End()
		g.gameOver = true
		return
	}

	if g.isCleared(res.Status) {
		g.levelCleared = true
		g.levelClearTicks = 0
		if g.cfg.Tick.LevelClearFrames == 0 {
			g.advanceLevel()
		}
		return
	}

	g.updatePace()
}

// record forwards a tick to the recorder.
func (g *Game) record(res sim.StepResult) {
	if g.recorder == nil || g.recordErr != nil {
		return
	}
	if err := g.recorder.RecordTick(res.Tick, res.Input, res.Status.Score, g.sim.Digest()); err != nil {
		g.recordErr = err
	}
}

// isCleared reports whether the current level is complete.
// Levels with gold or sacks are cleared once no gold is left, provided the
// player picked some up or no sack can still turn into gold. Levels without
// either are cleared by digging out all terrain.
func (g *Game) isCleared(st sim.Status) bool {
	if g.hadLoot {
		return st.GoldLeft == 0 && (st.Score > 0 || st.SacksLeft == 0)
	}
	return g.sim.Count(sim.KindTerrain) == 0
}

// advanceLevel banks the level score and moves to the next level.
func (g *Game) advanceLevel() {
	g.sim.End()
	g.baseScore += g.sim.Score()
	g.banked = true

	if g.mode == ModeRandom {
		g.seed++
		g.levelIndex++
		g.loadLevel()
		return
	}

	g.levelIndex++
	if g.levelIndex >= len(g.campaign) {
		g.levelIndex = len(g.campaign) - 1
		g.levelCleared = false
		g.won = true
		return
	}
	g.loadLevel()
}

// Score returns the total score across levels.
func (g *Game) Score() int {
	if g.sim == nil || g.banked {
		return g.baseScore
	}
	return g.baseScore + g.sim.Score()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score:    g.Score(),
		GameOver: g.gameOver || g.loadErr != nil,
		Won:      g.won,
		Paused:   g.paused,
		Level:    g.level.ID,
	}
	if g.sim != nil {
		st.Ticks = g.sim.Tick()
	}
	return st
}

// Level returns the level being played.
func (g *Game) Level() levels.Level {
	return g.level
}

// Rows returns the current board as layout rows.
func (g *Game) Rows() []string {
	if g.sim == nil {
		return nil
	}
	return levels.Format(g.sim.Board())
}

// dirFor maps a platform action to a simulation direction.
func dirFor(a core.Action) sim.Dir {
	switch a {
	case core.ActionUp:
		return sim.DirUp
	case core.ActionDown:
		return sim.DirDown
	case core.ActionLeft:
		return sim.DirLeft
	case core.ActionRight:
		return sim.DirRight
	}
	return sim.DirNone
}
