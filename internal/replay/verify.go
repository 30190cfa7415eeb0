package replay

import (
	"fmt"

	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/games/digger/sim"
)

// Mismatch describes the first tick where a re-run diverged from the recording.
type Mismatch struct {
	Segment int
	LevelID string
	Tick    uint64
	Field   string // "tick", "dir", "score" or "digest"
	Want    string
	Got     string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("replay: segment %d (%s) tick %d: %s mismatch: want=%s got=%s",
		m.Segment, m.LevelID, m.Tick, m.Field, m.Want, m.Got)
}

// Report summarizes a successful verification.
type Report struct {
	Segments   int
	Ticks      int
	FinalScore int // Sum of the last recorded score of each segment
}

// Verify rebuilds each segment's simulation from its layout, re-applies the
// recorded inputs and compares score and digest after every tick.
// It returns a *Mismatch error at the first divergence.
func Verify(rec Recording) (Report, error) {
	var rep Report

	for i, seg := range rec.Segments {
		b, err := levels.ParseRows(seg.Header.Layout)
		if err != nil {
			return rep, fmt.Errorf("replay: segment %d (%s): %w", i, seg.Header.LevelID, err)
		}
		s, err := sim.NewSim(b)
		if err != nil {
			return rep, fmt.Errorf("replay: segment %d (%s): %w", i, seg.Header.LevelID, err)
		}

		mismatch := func(t Tick, field, want, got string) error {
			return &Mismatch{Segment: i, LevelID: seg.Header.LevelID, Tick: t.Tick, Field: field, Want: want, Got: got}
		}

		lastScore := 0
		for _, t := range seg.Ticks {
			if next := s.Tick() + 1; t.Tick != next {
				return rep, mismatch(t, "tick", fmt.Sprint(t.Tick), fmt.Sprint(next))
			}
			dir, ok := sim.ParseDir(t.Dir)
			if !ok {
				return rep, mismatch(t, "dir", "a direction", t.Dir)
			}

			res := s.Step(dir)
			if res.Status.Score != t.Score {
				return rep, mismatch(t, "score", fmt.Sprint(t.Score), fmt.Sprint(res.Status.Score))
			}
			if got := s.Digest(); got != t.Digest {
				return rep, mismatch(t, "digest", t.Digest, got)
			}

			lastScore = t.Score
			rep.Ticks++
		}

		rep.Segments++
		rep.FinalScore += lastScore
	}

	return rep, nil
}
