package digger

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/games/digger/sim"
)

// Glyph is how an entity kind appears on screen.
type Glyph struct {
	Rune  rune
	Color core.Color
}

// glyphs is indexed by sim.Kind.
var glyphs = [...]Glyph{
	sim.KindTerrain: {'▒', core.ColorBrown},
	sim.KindPlayer:  {'@', core.ColorBrightGreen},
	sim.KindSack:    {'ó', core.ColorOrange},
	sim.KindGold:    {'$', core.ColorBrightYellow},
	sim.KindMonster: {'M', core.ColorBrightRed},
}

// GlyphFor returns the on-screen glyph for an entity kind.
func GlyphFor(k sim.Kind) Glyph {
	if int(k) < len(glyphs) {
		return glyphs[k]
	}
	return Glyph{Rune: '?', Color: core.ColorMagenta}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	g.renderHUD(dst)

	if g.loadErr != nil {
		g.renderOverlay(dst, "Cannot load level", "Check the level files")
		return
	}
	if g.tooSmall {
		w, h := g.requiredSize()
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", w, h))
		return
	}
	if g.sim == nil {
		return
	}

	g.renderBoard(dst)

	switch {
	case g.won:
		g.renderOverlay(dst, "You Win!", fmt.Sprintf("Final Score: %d", g.Score()))
	case g.levelCleared:
		g.renderOverlay(dst, "Level cleared!", g.level.Name)
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// boardRect returns the screen area of the framed board.
func (g *Game) boardRect(dst *core.Screen) core.Rect {
	area := core.NewRect(0, hudHeight, dst.Width(), dst.Height()-hudHeight)
	return core.CenterIn(area, g.sim.Width()+2, g.sim.Height()+2)
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	var hud string
	gold := 0
	if g.sim != nil {
		gold = g.sim.Count(sim.KindGold)
	}

	if g.mode == ModeRandom {
		hud = fmt.Sprintf(" Digger (Random) | Map %d  Score: %d  Gold: %d", g.levelIndex+1, g.Score(), gold)
	} else {
		hud = fmt.Sprintf(" Digger | Level %d/%d %s  Score: %d  Gold: %d",
			g.levelIndex+1, len(g.campaign), g.level.Name, g.Score(), gold)
	}

	dst.DrawTextColored(0, 0, hud, core.ColorWhite)
	for x := range dst.Width() {
		dst.SetColored(x, 1, '─', core.ColorGray)
	}
}

// renderBoard draws the frame and every entity.
func (g *Game) renderBoard(dst *core.Screen) {
	frame := g.boardRect(dst)
	dst.DrawBox(frame, core.ColorGray)

	inner := frame.Inset(1)
	for _, d := range g.sim.Drawables() {
		gl := GlyphFor(d.Kind)
		dst.SetColored(inner.X+d.At.X, inner.Y+d.At.Y, gl.Rune, gl.Color)
	}
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	textW := max(utf8.RuneCountInString(line1), utf8.RuneCountInString(line2))
	box := core.CenterIn(dst.Bounds(), textW+4, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorCyan)
	dst.DrawTextCenteredColored(box.Y+1, line1, core.ColorBrightYellow)
	dst.DrawTextCenteredColored(box.Y+3, line2, core.ColorWhite)
}
