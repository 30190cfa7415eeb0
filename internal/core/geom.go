// Package core provides the platform types shared by the game, the terminal
// front end and the network server. It has no external dependencies so game
// logic stays pure and testable.
package core

// Rect is an axis-aligned area of the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(0, r.W-2*n), H: max(0, r.H-2*n)}
}

// CenterIn returns a w×h rectangle centered inside outer.
// The result is clamped to outer's top-left corner when it does not fit.
func CenterIn(outer Rect, w, h int) Rect {
	return Rect{
		X: outer.X + max(0, (outer.W-w)/2),
		Y: outer.Y + max(0, (outer.H-h)/2),
		W: w,
		H: h,
	}
}
