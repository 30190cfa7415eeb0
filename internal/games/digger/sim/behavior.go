package sim

import "math"

// GoldReward is the score awarded when the player picks up gold.
const GoldReward = 10

// Decision is an entity's intent for the current tick: either a one-cell
// displacement (or none) or an in-place transformation into another entity.
type Decision struct {
	DX, DY      int
	TransformTo *Entity
}

// Stay returns the null decision.
func Stay() Decision {
	return Decision{}
}

// Move returns a displacement decision for direction d.
func Move(d Dir) Decision {
	dx, dy := d.Delta()
	return Decision{DX: dx, DY: dy}
}

// Transform returns a decision that replaces the entity with e.
func Transform(e *Entity) Decision {
	return Decision{TransformTo: e}
}

// IsStay reports whether the decision has a null displacement.
func (d Decision) IsStay() bool {
	return d.DX == 0 && d.DY == 0
}

// view is what a deciding entity may observe: its own position, the
// pre-tick board and the input latched for this tick.
type view struct {
	at    Coord
	board *Board
	input Dir
}

// behavior is the capability set of one entity kind.
type behavior struct {
	decide      func(e *Entity, v view) Decision
	diesAgainst func(other *Entity) bool
}

// behaviors is the dispatch table indexed by Kind.
var behaviors = [...]behavior{
	KindTerrain: {decide: decideStill, diesAgainst: always},
	KindPlayer:  {decide: decidePlayer, diesAgainst: killedBySackOrMonster},
	KindSack:    {decide: decideSack, diesAgainst: never},
	KindGold:    {decide: decideStill, diesAgainst: always},
	KindMonster: {decide: decideMonster, diesAgainst: killedBySackOrMonster},
}

// Decide returns the decision of e standing at `at` on board b with the given input.
// Deciding may update the entity's private state (the sack fall counter).
func Decide(e *Entity, at Coord, b *Board, input Dir) Decision {
	return behaviors[e.Kind].decide(e, view{at: at, board: b, input: input})
}

// DiesAgainst reports whether e is eliminated when other contends for its cell.
func DiesAgainst(e, other *Entity) bool {
	return behaviors[e.Kind].diesAgainst(other)
}

func always(*Entity) bool { return true }

func never(*Entity) bool { return false }

func killedBySackOrMonster(other *Entity) bool {
	return other.Is(KindSack, KindMonster)
}

func decideStill(*Entity, view) Decision {
	return Stay()
}

func decidePlayer(_ *Entity, v view) Decision {
	if v.input == DirNone {
		return Stay()
	}
	dx, dy := v.input.Delta()
	dst := v.at.Add(dx, dy)
	if !v.board.InBounds(dst) || v.board.At(dst).Is(KindSack) {
		return Stay()
	}
	return Move(v.input)
}

// decideSack applies gravity. A sack that has already fallen keeps falling
// through a player or monster below it. Once blocked it turns into gold on
// the bottom row or after a fall of more than one step, else it comes to rest.
func decideSack(e *Entity, v view) Decision {
	below := v.at.Add(0, 1)
	if v.board.InBounds(below) {
		next := v.board.At(below)
		if next == nil || (e.steps > 0 && next.Is(KindPlayer, KindMonster)) {
			e.steps++
			return Move(DirDown)
		}
	}

	onBottom := v.at.Y == v.board.H-1
	if onBottom || e.steps > 1 {
		return Transform(New(KindGold))
	}
	e.steps = 0
	return Stay()
}

// monsterSteps is the candidate enumeration order. Ties in distance are won
// by the earliest entry, so the order is observable.
var monsterSteps = [...]Dir{DirNone, DirLeft, DirRight, DirUp, DirDown}

func decideMonster(_ *Entity, v view) Decision {
	target, ok := v.board.Find(KindPlayer)
	if !ok {
		return Stay()
	}

	candidates := make([]Dir, 0, len(monsterSteps))
	for _, d := range monsterSteps {
		if d == DirNone {
			candidates = append(candidates, d)
			continue
		}
		dx, dy := d.Delta()
		dst := v.at.Add(dx, dy)
		if !v.board.InBounds(dst) {
			continue
		}
		if occ := v.board.At(dst); occ == nil || occ.Is(KindGold, KindPlayer) {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 1 {
		return Move(candidates[0])
	}

	best := candidates[0]
	bestDist := math.MaxInt
	for _, d := range candidates {
		dx, dy := d.Delta()
		if dist := v.at.Add(dx, dy).Manhattan(target); dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return Move(best)
}
