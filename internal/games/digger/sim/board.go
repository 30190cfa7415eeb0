package sim

import (
	"sort"
	"strings"
)

// Board is a fixed-size grid where each cell holds zero or one entity.
// Cells are stored in row-major order: index = y*W + x.
type Board struct {
	W     int
	H     int
	cells []*Entity
}

// NewBoard creates an empty board with the given dimensions.
func NewBoard(w, h int) *Board {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Board{
		W:     w,
		H:     h,
		cells: make([]*Entity, w*h),
	}
}

// index converts a coordinate to a flat array index.
func (b *Board) index(c Coord) int {
	return c.Y*b.W + c.X
}

// InBounds returns true if the coordinate is within the board.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.W && c.Y >= 0 && c.Y < b.H
}

// At returns the entity at c, or nil if the cell is empty or out of bounds.
func (b *Board) At(c Coord) *Entity {
	if !b.InBounds(c) {
		return nil
	}
	return b.cells[b.index(c)]
}

// Set places e at c. A nil entity clears the cell.
func (b *Board) Set(c Coord, e *Entity) {
	if b.InBounds(c) {
		b.cells[b.index(c)] = e
	}
}

// Put places a fresh entity of kind k at c and returns it.
func (b *Board) Put(c Coord, k Kind) *Entity {
	e := New(k)
	b.Set(c, e)
	return e
}

// Clear empties the cell at c.
func (b *Board) Clear(c Coord) {
	b.Set(c, nil)
}

// Each visits every occupied cell in column-major order
// (x ascending, then y ascending). This is the tick visitation order.
func (b *Board) Each(fn func(c Coord, e *Entity)) {
	for x := 0; x < b.W; x++ {
		for y := 0; y < b.H; y++ {
			c := C(x, y)
			if e := b.cells[b.index(c)]; e != nil {
				fn(c, e)
			}
		}
	}
}

// Find returns the position of the first entity of kind k in visitation order.
func (b *Board) Find(k Kind) (Coord, bool) {
	for x := 0; x < b.W; x++ {
		for y := 0; y < b.H; y++ {
			c := C(x, y)
			if b.cells[b.index(c)].Is(k) {
				return c, true
			}
		}
	}
	return Coord{}, false
}

// Count returns the number of entities of kind k on the board.
func (b *Board) Count(k Kind) int {
	n := 0
	for _, e := range b.cells {
		if e.Is(k) {
			n++
		}
	}
	return n
}

// Occupied returns the number of non-empty cells.
func (b *Board) Occupied() int {
	n := 0
	for _, e := range b.cells {
		if e != nil {
			n++
		}
	}
	return n
}

// snapshot returns a board sharing entity pointers with b.
// Used to give decisions a consistent pre-tick view.
func (b *Board) snapshot() *Board {
	cells := make([]*Entity, len(b.cells))
	copy(cells, b.cells)
	return &Board{W: b.W, H: b.H, cells: cells}
}

// Clone returns a deep copy of the board, including entity private state.
func (b *Board) Clone() *Board {
	cells := make([]*Entity, len(b.cells))
	for i, e := range b.cells {
		if e != nil {
			cells[i] = e.clone()
		}
	}
	return &Board{W: b.W, H: b.H, cells: cells}
}

// Drawable is an occupied cell as seen by a renderer.
type Drawable struct {
	At   Coord
	Kind Kind
}

// Drawables returns all occupied cells ordered by draw priority, lowest first.
// Ties keep visitation order.
func (b *Board) Drawables() []Drawable {
	out := make([]Drawable, 0, b.Occupied())
	b.Each(func(c Coord, e *Entity) {
		out = append(out, Drawable{At: c, Kind: e.Kind})
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind.DrawPriority() < out[j].Kind.DrawPriority()
	})
	return out
}

// Rows returns the textual layout of the board, one string per row.
// Empty cells are rendered as spaces.
func (b *Board) Rows() []string {
	rows := make([]string, b.H)
	for y := 0; y < b.H; y++ {
		var sb strings.Builder
		for x := 0; x < b.W; x++ {
			if e := b.cells[b.index(C(x, y))]; e != nil {
				sb.WriteRune(e.Kind.Rune())
			} else {
				sb.WriteRune(' ')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// String returns the textual layout joined with newlines.
func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}
