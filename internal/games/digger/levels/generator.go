package levels

import (
	"fmt"
	"strconv"
	"strings"
)

// GenParams configures the random map generator.
type GenParams struct {
	Width       int
	Height      int
	MaxMonsters int    // Cap on monsters placed; 0 places none
	Seed        uint64 // RNG seed; equal params give equal maps
}

// rng is a deterministic pseudo-random number generator (xorshift64).
type rng struct {
	state uint64
}

func newRNG(seed uint64) *rng {
	if seed == 0 {
		seed = 88172645463325252
	}
	return &rng{state: seed}
}

func (r *rng) next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// intn returns a value in [0, n).
func (r *rng) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}

// Generate builds a random level. The player starts in a 3x3 pocket of
// terrain; every other cell is drawn from a weighted table out of 20:
// 5 empty, 8 terrain, 1 sack, 2 gold, 3 monster while under the cap
// (empty once the cap is reached), 1 empty.
// Cells are drawn in column-major order.
func Generate(p GenParams) (Level, error) {
	if p.Width < 1 || p.Height < 1 {
		return Level{}, fmt.Errorf("levels: invalid map size %dx%d", p.Width, p.Height)
	}

	r := newRNG(p.Seed)
	px, py := r.intn(p.Width), r.intn(p.Height)

	grid := make([][]byte, p.Height)
	for y := range grid {
		grid[y] = make([]byte, p.Width)
	}

	monsters := 0
	for x := 0; x < p.Width; x++ {
		for y := 0; y < p.Height; y++ {
			switch {
			case x == px && y == py:
				grid[y][x] = 'P'
			case abs(x-px) < 2 && abs(y-py) < 2:
				grid[y][x] = 'T'
			default:
				grid[y][x] = drawTile(r, &monsters, p.MaxMonsters)
			}
		}
	}

	rows := make([]string, p.Height)
	for y, row := range grid {
		rows[y] = string(row)
	}

	id := "random-" + strconv.FormatUint(p.Seed, 10)
	lvl, err := FromLayout(id, fmt.Sprintf("Random #%d", p.Seed), strings.Join(rows, "\n"))
	if err != nil {
		return Level{}, err
	}
	lvl.Metadata = map[string]string{
		"seed":         strconv.FormatUint(p.Seed, 10),
		"max_monsters": strconv.Itoa(p.MaxMonsters),
	}
	return lvl, nil
}

func drawTile(r *rng, monsters *int, maxMonsters int) byte {
	n := r.intn(20)
	switch {
	case n < 5:
		return EmptyTile
	case n < 13:
		return 'T'
	case n < 14:
		return 'S'
	case n < 16:
		return 'G'
	case n < 19 && *monsters < maxMonsters:
		*monsters++
		return 'M'
	}
	return EmptyTile
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
