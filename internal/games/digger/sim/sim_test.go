package sim

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPlayerCollectsGold(t *testing.T) {
	s := simFrom(t,
		"PGTT",
		"TTTT",
		"TTTT",
		"TTTT",
	)

	res := s.Step(DirRight)

	expectKind(t, s, C(1, 0), KindPlayer)
	expectEmpty(t, s, C(0, 0))
	if s.Score() != 10 {
		t.Errorf("Score() = %d, expected 10", s.Score())
	}
	if res.ScoreGained != GoldReward {
		t.Errorf("ScoreGained = %d, expected %d", res.ScoreGained, GoldReward)
	}
	if res.Status.GoldLeft != 0 {
		t.Errorf("GoldLeft = %d, expected 0", res.Status.GoldLeft)
	}
	if len(res.Removed) != 1 || res.Removed[0].Kind != KindGold || res.Removed[0].By != KindPlayer {
		t.Errorf("expected a single gold removal by the player, got %+v", res.Removed)
	}
	if !res.Status.PlayerAlive || res.Status.Player != C(1, 0) {
		t.Errorf("player status = %+v, expected alive at (1,0)", res.Status)
	}
}

func TestPlayerDigsTerrain(t *testing.T) {
	s := simFrom(t,
		"PT",
		"TT",
	)

	res := s.Step(DirRight)

	expectKind(t, s, C(1, 0), KindPlayer)
	if got := s.Board().Count(KindTerrain); got != 2 {
		t.Errorf("terrain count = %d, expected 2", got)
	}
	if len(res.Removed) != 1 || res.Removed[0].Kind != KindTerrain {
		t.Errorf("expected terrain to be removed, got %+v", res.Removed)
	}
	if s.Score() != 0 {
		t.Errorf("digging should not score, got %d", s.Score())
	}
}

func TestPlayerBlockedBySackAndEdges(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		input Dir
		want  Coord
	}{
		{"sack to the right", []string{"PS", "TT"}, DirRight, C(0, 0)},
		{"left edge", []string{"PT", "TT"}, DirLeft, C(0, 0)},
		{"top edge", []string{"PT", "TT"}, DirUp, C(0, 0)},
		{"no input", []string{"PT", "TT"}, DirNone, C(0, 0)},
		{"down into terrain", []string{"PT", "TT"}, DirDown, C(0, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := simFrom(t, tc.rows...)
			s.Step(tc.input)
			expectKind(t, s, tc.want, KindPlayer)
		})
	}
}

func TestSackFallsOneRowPerTick(t *testing.T) {
	s := simFrom(t,
		"PS",
		"T.",
		"T.",
		"TT",
	)

	s.Step(DirNone)
	expectKind(t, s, C(1, 1), KindSack)
	expectEmpty(t, s, C(1, 0))

	s.Step(DirNone)
	expectKind(t, s, C(1, 2), KindSack)
	expectEmpty(t, s, C(1, 1))

	// Blocked after two steps: turns into gold in place.
	res := s.Step(DirNone)
	expectKind(t, s, C(1, 2), KindGold)
	if len(res.Transformed) != 1 {
		t.Fatalf("expected one transformation, got %d", len(res.Transformed))
	}
	if tr := res.Transformed[0]; tr.From != KindSack || tr.To != KindGold || tr.At != C(1, 2) {
		t.Errorf("unexpected transformation %+v", tr)
	}
}

func TestSackTransformsOnce(t *testing.T) {
	s := simFrom(t,
		"PS",
		"T.",
		"T.",
		"TT",
	)

	transforms := 0
	for range 10 {
		res := s.Step(DirNone)
		transforms += len(res.Transformed)
	}

	if transforms != 1 {
		t.Errorf("expected exactly one transformation, got %d", transforms)
	}
	expectKind(t, s, C(1, 2), KindGold)
	if st := s.Status(); st.SacksLeft != 0 || st.GoldLeft != 1 {
		t.Errorf("expected 0 sacks and 1 gold, got %+v", st)
	}
}

func TestSackRestsAfterSingleStep(t *testing.T) {
	s := simFrom(t,
		"PS",
		"T.",
		"TT",
	)

	s.Step(DirNone)
	expectKind(t, s, C(1, 1), KindSack)

	for range 3 {
		s.Step(DirNone)
	}
	expectKind(t, s, C(1, 1), KindSack)

	if steps := s.board.At(C(1, 1)).steps; steps != 0 {
		t.Errorf("resting sack should reset its counter, got %d", steps)
	}
}

func TestSackReachingBottomRowBecomesGold(t *testing.T) {
	s := simFrom(t,
		"PS",
		"T.",
	)

	s.Step(DirNone)
	expectKind(t, s, C(1, 1), KindSack)

	s.Step(DirNone)
	expectKind(t, s, C(1, 1), KindGold)
}

func TestSackOnBottomRowBecomesGold(t *testing.T) {
	s := simFrom(t,
		"P.",
		"TS",
	)

	res := s.Step(DirNone)
	expectKind(t, s, C(1, 1), KindGold)
	if len(res.Transformed) != 1 || res.Transformed[0].From != KindSack {
		t.Errorf("expected the sack to turn into gold, got %+v", res.Transformed)
	}
}

func TestPlayerWalksIntoSack(t *testing.T) {
	s := simFrom(t,
		"S.",
		".P",
		"TT",
	)

	res := s.Step(DirLeft)

	expectKind(t, s, C(0, 1), KindSack)
	expectEmpty(t, s, C(0, 0))
	expectEmpty(t, s, C(1, 1))
	want := RemovedEvent{Kind: KindPlayer, At: C(1, 1), By: KindSack}
	if len(res.Removed) != 1 || res.Removed[0] != want {
		t.Errorf("Removed = %+v, expected [%+v]", res.Removed, want)
	}
	if res.Status.PlayerAlive {
		t.Error("status should report the player as dead")
	}
}

func TestRestingSackDoesNotCrushPlayer(t *testing.T) {
	s := simFrom(t,
		".S",
		".P",
		"TT",
	)

	for range 3 {
		s.Step(DirNone)
	}
	expectKind(t, s, C(1, 0), KindSack)
	expectKind(t, s, C(1, 1), KindPlayer)
}

func TestFallingSackCrushesPlayer(t *testing.T) {
	s := simFrom(t,
		".S",
		"..",
		".P",
		"TT",
	)

	s.Step(DirNone)
	expectKind(t, s, C(1, 1), KindSack)

	res := s.Step(DirNone)
	expectKind(t, s, C(1, 2), KindSack)
	if !res.PlayerRemoved() {
		t.Error("expected the player to be removed")
	}
	if res.Status.PlayerAlive {
		t.Error("status should report the player as dead")
	}

	res = s.Step(DirNone)
	expectKind(t, s, C(1, 2), KindGold)
	if len(res.Transformed) != 1 {
		t.Errorf("expected the sack to turn into gold, got %+v", res.Transformed)
	}
}

func TestFallingSackCrushesMonster(t *testing.T) {
	s := simFrom(t,
		"TTS",
		"TT.",
		"TTM",
		"TTT",
		"TTP",
	)

	s.Step(DirNone)
	expectKind(t, s, C(2, 1), KindSack)
	expectKind(t, s, C(2, 2), KindMonster)

	res := s.Step(DirNone)
	expectKind(t, s, C(2, 2), KindSack)
	if res.Status.Monsters != 0 {
		t.Errorf("Monsters = %d, expected 0", res.Status.Monsters)
	}
	if len(res.Removed) != 1 || res.Removed[0].Kind != KindMonster || res.Removed[0].By != KindSack {
		t.Errorf("expected the monster to be crushed by the sack, got %+v", res.Removed)
	}
	if !res.Status.PlayerAlive {
		t.Error("player should survive")
	}
}

func TestSackFallsOntoCellEnteredThisTick(t *testing.T) {
	// Decisions use the pre-tick board, so the sack falls even though the
	// player steps under it earlier in the same tick.
	s := simFrom(t,
		".S",
		"P.",
		"TT",
	)

	res := s.Step(DirRight)

	expectKind(t, s, C(1, 1), KindSack)
	expectEmpty(t, s, C(0, 1))
	if !res.PlayerRemoved() {
		t.Error("expected the player to be crushed")
	}
}

func TestPlayerWalksIntoMonster(t *testing.T) {
	s := simFrom(t,
		"PM",
		"TT",
	)

	res := s.Step(DirRight)

	if !res.PlayerRemoved() {
		t.Fatal("expected the player to be removed")
	}
	if res.Status.Monsters != 1 {
		t.Errorf("monster should survive, Monsters = %d", res.Status.Monsters)
	}
	// The monster targeted the player's old cell and moved into it afterwards.
	expectKind(t, s, C(0, 0), KindMonster)
}

func TestMonsterCatchesAdjacentPlayer(t *testing.T) {
	s := simFrom(t,
		"MP",
		"TT",
	)

	res := s.Step(DirNone)

	expectKind(t, s, C(1, 0), KindMonster)
	expectEmpty(t, s, C(0, 0))
	if !res.PlayerRemoved() {
		t.Error("expected the player to be removed")
	}
}

func TestMonsterTieBreakOrder(t *testing.T) {
	// Symmetric 3x3 board with the monster in the centre and the player in
	// a corner: two moves tie on distance and the earlier one wins
	// (stay, left, right, up, down).
	tests := []struct {
		name string
		rows []string
		want Coord
	}{
		{"top-left prefers left over up", []string{"P..", ".M.", "..."}, C(0, 1)},
		{"top-right prefers right over up", []string{"..P", ".M.", "..."}, C(2, 1)},
		{"bottom-left prefers left over down", []string{"...", ".M.", "P.."}, C(0, 1)},
		{"bottom-right prefers right over down", []string{"...", ".M.", "..P"}, C(2, 1)},
		{"blocked left falls back to up", []string{"P..", "TM.", "..."}, C(1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := simFrom(t, tc.rows...)
			s.Step(DirNone)
			expectKind(t, s, tc.want, KindMonster)
			expectEmpty(t, s, C(1, 1))
		})
	}
}

func TestMonsterCandidates(t *testing.T) {
	t.Run("boxed in stays", func(t *testing.T) {
		b := boardFrom(t,
			"PTT",
			"TMT",
			"TTT",
		)
		d := Decide(b.At(C(1, 1)), C(1, 1), b, DirNone)
		if !d.IsStay() {
			t.Errorf("expected stay, got %+v", d)
		}
	})

	t.Run("no player stays", func(t *testing.T) {
		b := boardFrom(t,
			"...",
			".M.",
			"...",
		)
		d := Decide(b.At(C(1, 1)), C(1, 1), b, DirNone)
		if !d.IsStay() {
			t.Errorf("expected stay, got %+v", d)
		}
	})

	t.Run("moves onto gold", func(t *testing.T) {
		b := boardFrom(t,
			"TTT",
			"TMG",
			"TTP",
		)
		d := Decide(b.At(C(1, 1)), C(1, 1), b, DirNone)
		if d.DX != 1 || d.DY != 0 {
			t.Errorf("expected a step right onto gold, got %+v", d)
		}
	})

	t.Run("does not enter sacks or monsters", func(t *testing.T) {
		b := boardFrom(t,
			"TST",
			"MMT",
			"TTP",
		)
		d := Decide(b.At(C(1, 1)), C(1, 1), b, DirNone)
		if !d.IsStay() {
			t.Errorf("expected stay, got %+v", d)
		}
	})
}

func TestMonstersTargetingSameCellBothDie(t *testing.T) {
	s := simFrom(t,
		"M.M",
		"TTT",
		"TPT",
	)

	res := s.Step(DirNone)

	expectEmpty(t, s, C(1, 0))
	expectEmpty(t, s, C(0, 0))
	expectEmpty(t, s, C(2, 0))
	if res.Status.Monsters != 0 {
		t.Errorf("Monsters = %d, expected 0", res.Status.Monsters)
	}
	if len(res.Removed) != 2 {
		t.Errorf("expected two removals, got %+v", res.Removed)
	}
}

func TestMonsterPicksUpGoldWithoutScore(t *testing.T) {
	s := simFrom(t,
		"TTT",
		"TMG",
		"TTP",
	)

	s.Step(DirNone)

	expectKind(t, s, C(2, 1), KindMonster)
	if s.Score() != 0 {
		t.Errorf("monster taking gold should not score, got %d", s.Score())
	}
}

func TestNewSimPlayerPrecondition(t *testing.T) {
	if _, err := NewSim(boardFrom(t, "TT", "TT")); !errors.Is(err, ErrNoPlayer) {
		t.Errorf("expected ErrNoPlayer, got %v", err)
	}
	if _, err := NewSim(boardFrom(t, "PP", "TT")); !errors.Is(err, ErrMultiplePlayers) {
		t.Errorf("expected ErrMultiplePlayers, got %v", err)
	}
	if _, err := NewSim(boardFrom(t, "P.", "TT")); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestEndedSimDoesNotAdvance(t *testing.T) {
	s := simFrom(t,
		"PG",
		"TT",
	)
	s.End()

	res := s.Step(DirRight)

	if !s.Ended() || !res.Status.Ended {
		t.Error("sim should report ended")
	}
	if s.Tick() != 0 {
		t.Errorf("Tick() = %d, expected 0", s.Tick())
	}
	expectKind(t, s, C(0, 0), KindPlayer)
	expectKind(t, s, C(1, 0), KindGold)
}

var classicMap = []string{
	"PTTGTT TST",
	"TST  TSTTM",
	"TTT TTSTTT",
	"T TSTS TTT",
	"T TTTGMSTS",
	"T TMT M TS",
	"TSTSTTMTTT",
	"S TTST  TG",
	" TGST MTTT",
	" T  TMTTTT",
}

func TestInvariantsOverRandomPlay(t *testing.T) {
	s := simFrom(t, classicMap...)
	rng := rand.New(rand.NewSource(7))
	dirs := []Dir{DirNone, DirUp, DirDown, DirLeft, DirRight}

	total := s.Board().Occupied()
	lastScore := 0
	for i := range 200 {
		res := s.Step(dirs[rng.Intn(len(dirs))])

		seen := make(map[*Entity]bool)
		for _, e := range s.board.cells {
			if e == nil {
				continue
			}
			if seen[e] {
				t.Fatalf("tick %d: entity present in two cells", i)
			}
			seen[e] = true
		}

		occupied := s.board.Occupied()
		if occupied > total {
			t.Fatalf("tick %d: entity count grew from %d to %d", i, total, occupied)
		}
		total = occupied

		if res.Status.Score < lastScore {
			t.Fatalf("tick %d: score decreased from %d to %d", i, lastScore, res.Status.Score)
		}
		if res.Status.Score-lastScore != res.ScoreGained {
			t.Fatalf("tick %d: score delta %d does not match gained %d", i, res.Status.Score-lastScore, res.ScoreGained)
		}
		lastScore = res.Status.Score
	}
}

func TestDeterminism(t *testing.T) {
	s1 := simFrom(t, classicMap...)
	s2 := simFrom(t, classicMap...)

	rng := rand.New(rand.NewSource(42))
	dirs := []Dir{DirNone, DirUp, DirDown, DirLeft, DirRight}
	for i := range 100 {
		d := dirs[rng.Intn(len(dirs))]
		s1.Step(d)
		s2.Step(d)

		if s1.Digest() != s2.Digest() {
			t.Fatalf("tick %d: digest mismatch", i)
		}
	}

	snap1 := s1.Snapshot()
	snap2 := s2.Snapshot()
	if snap1 != snap2 {
		t.Errorf("snapshot mismatch: %+v vs %+v", snap1, snap2)
	}
}

func TestDigestChangesWithState(t *testing.T) {
	s := simFrom(t,
		"PG",
		"TT",
	)
	before := s.Digest()
	s.Step(DirNone)
	if s.Digest() == before {
		t.Error("digest should include the tick counter")
	}
}
