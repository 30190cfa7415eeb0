package levels_test

import (
	"testing"

	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/games/digger/sim"
)

func TestGenerateDeterministic(t *testing.T) {
	p := levels.GenParams{Width: 20, Height: 20, MaxMonsters: 20, Seed: 42}

	a, err := levels.Generate(p)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	b, err := levels.Generate(p)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if a.Layout() != b.Layout() {
		t.Error("same seed produced different maps")
	}
	if a.ID != "random-42" {
		t.Errorf("ID = %q, expected random-42", a.ID)
	}

	p.Seed = 43
	c, err := levels.Generate(p)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if a.Layout() == c.Layout() {
		t.Error("different seeds produced identical maps")
	}
}

func TestGenerateShape(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		p := levels.GenParams{Width: 12, Height: 8, MaxMonsters: 3, Seed: seed}
		lvl, err := levels.Generate(p)
		if err != nil {
			t.Fatalf("seed %d: Generate() failed: %v", seed, err)
		}
		if lvl.Width != 12 || lvl.Height != 8 {
			t.Fatalf("seed %d: size %dx%d", seed, lvl.Width, lvl.Height)
		}

		b, err := lvl.NewBoard()
		if err != nil {
			t.Fatalf("seed %d: NewBoard() failed: %v", seed, err)
		}
		if n := b.Count(sim.KindMonster); n > 3 {
			t.Errorf("seed %d: %d monsters exceeds cap", seed, n)
		}

		pos, _ := b.Find(sim.KindPlayer)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				c := pos.Add(dx, dy)
				if c == pos || !b.InBounds(c) {
					continue
				}
				if e := b.At(c); e == nil || e.Kind != sim.KindTerrain {
					t.Errorf("seed %d: pocket cell %v is not terrain", seed, c)
				}
			}
		}
	}
}

func TestGenerateWithoutMonsters(t *testing.T) {
	lvl, err := levels.Generate(levels.GenParams{Width: 15, Height: 15, MaxMonsters: 0, Seed: 7})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	b, err := lvl.NewBoard()
	if err != nil {
		t.Fatalf("NewBoard() failed: %v", err)
	}
	if n := b.Count(sim.KindMonster); n != 0 {
		t.Errorf("expected no monsters, got %d", n)
	}
}

func TestGenerateRejectsBadSize(t *testing.T) {
	if _, err := levels.Generate(levels.GenParams{Width: 0, Height: 5}); err == nil {
		t.Error("expected error for zero width")
	}
}
