package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPlayer is returned when a board has no player cell.
	ErrNoPlayer = errors.New("sim: board has no player")
	// ErrMultiplePlayers is returned when a board has more than one player cell.
	ErrMultiplePlayers = errors.New("sim: board has more than one player")
)

// MoveEvent records an entity relocating during a tick.
type MoveEvent struct {
	Kind     Kind
	From, To Coord
}

// RemovedEvent records an entity eliminated in a conflict.
type RemovedEvent struct {
	Kind Kind
	At   Coord
	By   Kind // Kind of the counterpart in the conflict
}

// TransformEvent records an in-place replacement.
type TransformEvent struct {
	At       Coord
	From, To Kind
}

// StepResult contains information about what happened during a tick.
type StepResult struct {
	Tick        uint64
	Input       Dir
	Moved       []MoveEvent
	Removed     []RemovedEvent
	Transformed []TransformEvent
	ScoreGained int
	Status      Status
}

// PlayerRemoved reports whether the player was eliminated this tick.
func (r StepResult) PlayerRemoved() bool {
	for _, ev := range r.Removed {
		if ev.Kind == KindPlayer {
			return true
		}
	}
	return false
}

// Status is the externally observable state after a tick.
type Status struct {
	Tick        uint64
	Score       int
	PlayerAlive bool
	Player      Coord // Valid only when PlayerAlive is true
	GoldLeft    int
	SacksLeft   int
	Monsters    int
	Ended       bool
}

// Sim is the simulation context: the board, the accumulated score, the
// tick counter and the input latched for the current tick.
// A Sim is single-threaded; the caller paces ticks.
type Sim struct {
	board *Board
	score int
	tick  uint64
	input Dir
	ended bool
}

// NewSim takes ownership of b and returns a simulation over it.
// The board must contain exactly one player.
func NewSim(b *Board) (*Sim, error) {
	if err := CheckPlayers(b); err != nil {
		return nil, err
	}
	return &Sim{board: b}, nil
}

// CheckPlayers verifies that b holds exactly one player.
func CheckPlayers(b *Board) error {
	switch n := b.Count(KindPlayer); {
	case n == 0:
		return ErrNoPlayer
	case n > 1:
		return fmt.Errorf("%w: found %d", ErrMultiplePlayers, n)
	}
	return nil
}

// Board returns a deep copy of the current board.
func (s *Sim) Board() *Board {
	return s.board.Clone()
}

// Width returns the board width.
func (s *Sim) Width() int { return s.board.W }

// Height returns the board height.
func (s *Sim) Height() int { return s.board.H }

// KindAt returns the kind at c and whether the cell is occupied.
func (s *Sim) KindAt(c Coord) (Kind, bool) {
	e := s.board.At(c)
	if e == nil {
		return 0, false
	}
	return e.Kind, true
}

// Count returns the number of entities of kind k on the board.
func (s *Sim) Count(k Kind) int {
	return s.board.Count(k)
}

// Drawables returns the occupied cells in draw order.
func (s *Sim) Drawables() []Drawable {
	return s.board.Drawables()
}

// Rows returns the textual layout of the current board.
func (s *Sim) Rows() []string {
	return s.board.Rows()
}

// Score returns the accumulated score.
func (s *Sim) Score() int { return s.score }

// Tick returns the number of ticks advanced so far.
func (s *Sim) Tick() uint64 { return s.tick }

// Input returns the input latched for the last tick.
func (s *Sim) Input() Dir { return s.input }

// End marks the simulation as terminated. Subsequent Step calls do nothing.
func (s *Sim) End() { s.ended = true }

// Ended reports whether the caller has terminated the simulation.
func (s *Sim) Ended() bool { return s.ended }

// Status returns the current observable state.
func (s *Sim) Status() Status {
	st := Status{
		Tick:      s.tick,
		Score:     s.score,
		GoldLeft:  s.board.Count(KindGold),
		SacksLeft: s.board.Count(KindSack),
		Monsters:  s.board.Count(KindMonster),
		Ended:     s.ended,
	}
	st.Player, st.PlayerAlive = s.board.Find(KindPlayer)
	return st
}

// planned is a decision captured during the decide phase.
type planned struct {
	entity   *Entity
	from     Coord
	decision Decision
}

// Step advances the simulation by one tick with the given input.
//
// Tick phases:
//  1. Every entity decides against a snapshot of the pre-tick board,
//     in column-major order.
//  2. Decisions are applied to the live board in the same order.
//     Entities removed earlier in the tick are skipped. Transformations
//     replace the entity in place without a conflict check. Moves into an
//     occupied cell are resolved first; the mover relocates only if it
//     survived and the destination is free afterwards.
func (s *Sim) Step(input Dir) StepResult {
	if s.ended {
		return StepResult{Tick: s.tick, Input: input, Status: s.Status()}
	}

	s.input = input
	result := StepResult{Input: input}

	snap := s.board.snapshot()
	plan := make([]planned, 0, snap.Occupied())
	snap.Each(func(c Coord, e *Entity) {
		plan = append(plan, planned{
			entity:   e,
			from:     c,
			decision: Decide(e, c, snap, input),
		})
	})

	removed := make(map[*Entity]bool)
	for _, p := range plan {
		if removed[p.entity] {
			continue
		}
		s.apply(p, removed, &result)
	}

	s.tick++
	result.Tick = s.tick
	result.Status = s.Status()
	return result
}

// apply executes a single planned decision against the live board.
func (s *Sim) apply(p planned, removed map[*Entity]bool, result *StepResult) {
	if s.board.At(p.from) != p.entity {
		panic(fmt.Sprintf("sim: %s left %v without moving", p.entity.Kind, p.from))
	}

	d := p.decision
	if d.IsStay() {
		if d.TransformTo != nil {
			s.board.Set(p.from, d.TransformTo)
			result.Transformed = append(result.Transformed, TransformEvent{
				At:   p.from,
				From: p.entity.Kind,
				To:   d.TransformTo.Kind,
			})
		}
		return
	}

	to := p.from.Add(d.DX, d.DY)
	if !s.board.InBounds(to) {
		panic(fmt.Sprintf("sim: %s at %v decided to leave the board toward %v", p.entity.Kind, p.from, to))
	}

	if occupant := s.board.At(to); occupant != nil {
		out := Resolve(p.entity, occupant)
		if out.Score > 0 {
			s.score += out.Score
			result.ScoreGained += out.Score
		}
		if out.OccupantDies {
			removed[occupant] = true
			s.board.Clear(to)
			result.Removed = append(result.Removed, RemovedEvent{Kind: occupant.Kind, At: to, By: p.entity.Kind})
		}
		if out.IncomingDies {
			removed[p.entity] = true
			s.board.Clear(p.from)
			result.Removed = append(result.Removed, RemovedEvent{Kind: p.entity.Kind, At: p.from, By: occupant.Kind})
			return
		}
		if s.board.At(to) != nil {
			return
		}
	}

	s.board.Clear(p.from)
	s.board.Set(to, p.entity)
	result.Moved = append(result.Moved, MoveEvent{Kind: p.entity.Kind, From: p.from, To: to})
}
