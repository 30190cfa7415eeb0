package sim

import "testing"

// boardFrom builds a board from layout rows ('.' or ' ' is empty).
func boardFrom(t *testing.T, rows ...string) *Board {
	t.Helper()

	if len(rows) == 0 {
		t.Fatal("boardFrom: no rows")
	}
	w := len(rows[0])
	b := NewBoard(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			t.Fatalf("boardFrom: row %d has width %d, expected %d", y, len(row), w)
		}
		for x, ch := range row {
			switch ch {
			case '.', ' ':
			case 'T':
				b.Put(C(x, y), KindTerrain)
			case 'P':
				b.Put(C(x, y), KindPlayer)
			case 'S':
				b.Put(C(x, y), KindSack)
			case 'G':
				b.Put(C(x, y), KindGold)
			case 'M':
				b.Put(C(x, y), KindMonster)
			default:
				t.Fatalf("boardFrom: unknown tile %q", ch)
			}
		}
	}
	return b
}

// simFrom builds a simulation from layout rows.
func simFrom(t *testing.T, rows ...string) *Sim {
	t.Helper()

	s, err := NewSim(boardFrom(t, rows...))
	if err != nil {
		t.Fatalf("NewSim() failed: %v", err)
	}
	return s
}

// expectKind asserts the kind at c.
func expectKind(t *testing.T, s *Sim, c Coord, want Kind) {
	t.Helper()

	got, ok := s.KindAt(c)
	if !ok {
		t.Fatalf("expected %s at %v, cell is empty", want, c)
	}
	if got != want {
		t.Fatalf("expected %s at %v, got %s", want, c, got)
	}
}

// expectEmpty asserts that c holds no entity.
func expectEmpty(t *testing.T, s *Sim, c Coord) {
	t.Helper()

	if got, ok := s.KindAt(c); ok {
		t.Fatalf("expected %v to be empty, got %s", c, got)
	}
}
