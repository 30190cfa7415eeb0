package digger

import (
	"strings"
	"testing"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/games/digger/sim"
	"github.com/vovakirdan/digger/internal/registry"
)

func testConfig() config.DiggerConfig {
	cfg := config.DefaultDiggerConfig()
	cfg.Tick.MoveEveryTicks = 1
	cfg.Tick.MinMoveEveryTicks = 1
	cfg.Tick.LevelClearFrames = 2
	cfg.Difficulty.Enabled = false
	return cfg
}

func mustLevel(t *testing.T, id, layout string) levels.Level {
	t.Helper()
	lvl, err := levels.FromLayout(id, strings.ToUpper(id), layout)
	if err != nil {
		t.Fatalf("FromLayout(%s) failed: %v", id, err)
	}
	return lvl
}

func newTestGame(t *testing.T, cfg config.DiggerConfig, layouts ...string) *Game {
	t.Helper()
	var lvls []levels.Level
	for i, layout := range layouts {
		lvls = append(lvls, mustLevel(t, string(rune('a'+i)), layout))
	}
	g := New(WithConfig(cfg), WithLevels(lvls))
	g.Reset(core.RuntimeConfig{})
	if err := g.LoadErr(); err != nil {
		t.Fatalf("Reset() failed to load: %v", err)
	}
	return g
}

func idle() core.InputFrame {
	return core.NewInputFrame()
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{IDCampaign, IDRandom} {
		if !registry.Exists(id) {
			t.Errorf("%s should be registered", id)
		}
	}
}

func TestPacing(t *testing.T) {
	cfg := testConfig()
	cfg.Tick.MoveEveryTicks = 3
	g := newTestGame(t, cfg, "PTT\nTTT")

	for i := 1; i <= 2; i++ {
		if res := g.Step(idle()); res.Advanced {
			t.Fatalf("frame %d should not advance the simulation", i)
		}
	}
	res := g.Step(idle())
	if !res.Advanced {
		t.Fatal("third frame should advance the simulation")
	}
	if res.State.Ticks != 1 {
		t.Errorf("Ticks = %d, expected 1", res.State.Ticks)
	}
}

func TestDirectionLatchedUntilTick(t *testing.T) {
	cfg := testConfig()
	cfg.Tick.MoveEveryTicks = 3
	g := newTestGame(t, cfg, "PTT\nTTT")

	g.Step(core.FrameOf(core.ActionRight))
	g.Step(idle())
	g.Step(idle())

	if kind, ok := g.sim.KindAt(sim.C(1, 0)); !ok || kind != sim.KindPlayer {
		t.Fatal("latched direction should move the player on the next tick")
	}

	// The latch clears after the tick.
	for range 3 {
		g.Step(idle())
	}
	if kind, ok := g.sim.KindAt(sim.C(1, 0)); !ok || kind != sim.KindPlayer {
		t.Error("player should stay put without new input")
	}
}

func TestLatestDirectionWins(t *testing.T) {
	g := newTestGame(t, testConfig(), ".P.\nTTT")

	g.Step(core.FrameOf(core.ActionLeft, core.ActionRight))

	if kind, ok := g.sim.KindAt(sim.C(2, 0)); !ok || kind != sim.KindPlayer {
		t.Errorf("expected player at (2,0), board:\n%s", strings.Join(g.Rows(), "\n"))
	}
}

func TestCampaignProgression(t *testing.T) {
	g := newTestGame(t, testConfig(), "PG\nTT", "PT")

	res := g.Step(core.FrameOf(core.ActionRight))
	if res.State.Score != sim.GoldReward {
		t.Fatalf("Score = %d, expected %d", res.State.Score, sim.GoldReward)
	}
	if g.Phase() != StateLevelCleared {
		t.Fatalf("Phase = %s, expected level cleared", g.Phase())
	}

	g.Step(idle())
	g.Step(idle())
	if st := g.State(); st.Level != "b" || st.Score != sim.GoldReward {
		t.Fatalf("after banner: level %q score %d", st.Level, st.Score)
	}

	// The second level has no loot: digging out the terrain clears it.
	g.Step(core.FrameOf(core.ActionRight))
	if g.Phase() != StateLevelCleared {
		t.Fatalf("Phase = %s, expected level cleared", g.Phase())
	}
	g.Step(idle())
	g.Step(idle())

	st := g.State()
	if !st.Won || st.GameOver {
		t.Fatalf("expected a win, got %+v", st)
	}
	if st.Score != sim.GoldReward {
		t.Errorf("final Score = %d, expected %d", st.Score, sim.GoldReward)
	}
	if !st.Finished() {
		t.Error("won game should be finished")
	}
}

func TestImmediateAdvanceWithoutBanner(t *testing.T) {
	cfg := testConfig()
	cfg.Tick.LevelClearFrames = 0
	g := newTestGame(t, cfg, "PG\nTT", "PT")

	g.Step(core.FrameOf(core.ActionRight))
	if st := g.State(); st.Level != "b" {
		t.Errorf("expected to move straight to level b, got %q", st.Level)
	}
}

func TestGameOverAndRestart(t *testing.T) {
	g := newTestGame(t, testConfig(), "MP\nTT")

	res := g.Step(idle())
	if !res.State.GameOver {
		t.Fatal("monster should catch the player")
	}
	if !g.sim.Ended() {
		t.Error("sim should be ended after the player is removed")
	}

	// No further ticks after game over.
	if res := g.Step(idle()); res.Advanced {
		t.Error("game over should not advance")
	}

	g.Step(core.FrameOf(core.ActionRestart))
	if st := g.State(); st.GameOver || st.Ticks != 0 || st.Score != 0 {
		t.Errorf("restart should reset the game, got %+v", st)
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(t, testConfig(), "PT\nTT")

	g.Step(core.FrameOf(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused state")
	}
	if res := g.Step(core.FrameOf(core.ActionRight)); res.Advanced {
		t.Error("paused game should not advance")
	}

	g.Step(core.FrameOf(core.ActionPause))
	if g.State().Paused {
		t.Fatal("expected unpaused state")
	}
	if res := g.Step(core.FrameOf(core.ActionRight)); !res.Advanced {
		t.Error("unpaused game should advance")
	}
}

func TestWindowTooSmall(t *testing.T) {
	cfg := testConfig()
	lvl := mustLevel(t, "a", "PG\nTT")
	g := New(WithConfig(cfg), WithLevels([]levels.Level{lvl}))
	g.Reset(core.RuntimeConfig{ScreenW: 5, ScreenH: 5})

	if g.Phase() != StatePausedSmall {
		t.Fatalf("Phase = %s, expected paused_small_window", g.Phase())
	}
	if res := g.Step(core.FrameOf(core.ActionRight)); res.Advanced {
		t.Error("too small window should not advance")
	}

	g.Resize(10, 10)
	if g.Phase() != StatePlaying {
		t.Errorf("Phase = %s after resize, expected playing", g.Phase())
	}
}

func TestStartLevelFromRuntimeConfig(t *testing.T) {
	cfg := testConfig()
	g := New(WithConfig(cfg))
	g.Reset(core.RuntimeConfig{Level: "03-monsters"})

	if err := g.LoadErr(); err != nil {
		t.Fatalf("built-in campaign failed to load: %v", err)
	}
	if st := g.State(); st.Level != "03-monsters" {
		t.Errorf("Level = %q, expected 03-monsters", st.Level)
	}
}

type fakeRecorder struct {
	levels []string
	ticks  []uint64
	dirs   []sim.Dir
	scores []int
}

func (r *fakeRecorder) BeginLevel(lvl levels.Level, _ int64) error {
	r.levels = append(r.levels, lvl.ID)
	return nil
}

func (r *fakeRecorder) RecordTick(tick uint64, dir sim.Dir, score int, digest string) error {
	if digest == "" {
		panic("empty digest")
	}
	r.ticks = append(r.ticks, tick)
	r.dirs = append(r.dirs, dir)
	r.scores = append(r.scores, score)
	return nil
}

func TestRecorderReceivesTicks(t *testing.T) {
	rec := &fakeRecorder{}
	lvl := mustLevel(t, "a", "P.G\nTTT")
	g := New(WithConfig(testConfig()), WithLevels([]levels.Level{lvl}), WithRecorder(rec))
	g.Reset(core.RuntimeConfig{})

	g.Step(core.FrameOf(core.ActionRight))
	g.Step(idle())
	g.Step(core.FrameOf(core.ActionRight))

	if len(rec.levels) != 1 || rec.levels[0] != "a" {
		t.Errorf("levels = %v", rec.levels)
	}
	if len(rec.ticks) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(rec.ticks))
	}
	wantDirs := []sim.Dir{sim.DirRight, sim.DirNone, sim.DirRight}
	for i, d := range wantDirs {
		if rec.dirs[i] != d {
			t.Errorf("tick %d dir = %s, expected %s", i+1, rec.dirs[i], d)
		}
	}
	if rec.scores[2] != sim.GoldReward {
		t.Errorf("last recorded score = %d, expected %d", rec.scores[2], sim.GoldReward)
	}
}

func TestRandomModeDeterminism(t *testing.T) {
	cfg := testConfig()
	cfg.Generator = config.GeneratorConfig{Width: 12, Height: 10, MaxMonsters: 3}

	run := func() Snapshot {
		g := NewRandom(WithConfig(cfg))
		g.Reset(core.RuntimeConfig{Seed: 99})
		script := []core.Action{core.ActionRight, core.ActionDown, core.ActionLeft, core.ActionUp}
		for i := range 60 {
			in := idle()
			if i%3 == 0 {
				in.Set(script[(i/3)%len(script)])
			}
			g.Step(in)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("same seed and inputs diverged:\n%+v\n%+v", a, b)
	}
	if a.Sim.Tick == 0 {
		t.Error("expected the simulation to advance")
	}
}

func TestRender(t *testing.T) {
	lvl := mustLevel(t, "a", "PG\nTT")
	g := New(WithConfig(testConfig()), WithLevels([]levels.Level{lvl}))
	g.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 12})

	screen := core.NewScreen(40, 12)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Score: 0") {
		t.Errorf("HUD = %q", screen.Row(0))
	}
	out := screen.String()
	for _, k := range []sim.Kind{sim.KindPlayer, sim.KindGold, sim.KindTerrain} {
		if !strings.ContainsRune(out, GlyphFor(k).Rune) {
			t.Errorf("screen is missing the %s glyph", k)
		}
	}

	g.Step(core.FrameOf(core.ActionPause))
	g.Render(screen)
	if !strings.Contains(screen.String(), "Paused") {
		t.Error("expected pause overlay")
	}
}
