// Package levels turns textual layouts into simulation boards.
// It provides the built-in campaign, a directory loader and a seeded
// random map generator. The sim package does not depend on levels.
package levels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/digger/internal/games/digger/sim"
)

var (
	// ErrUnknownTile is returned when a layout contains an unsupported character.
	ErrUnknownTile = errors.New("levels: unknown tile")
	// ErrRaggedRows is returned when layout rows differ in width.
	ErrRaggedRows = errors.New("levels: rows have different widths")
	// ErrEmptyLayout is returned when a layout has no rows.
	ErrEmptyLayout = errors.New("levels: empty layout")
)

// EmptyTile is the character written for empty cells by Format.
// A space is accepted as empty on input as well.
const EmptyTile = '.'

// tileKind maps a layout character to an entity kind.
// W is the generator's second monster tag and loads as a plain monster.
func tileKind(ch rune) (k sim.Kind, occupied bool, err error) {
	switch ch {
	case ' ', EmptyTile:
		return 0, false, nil
	case 'T':
		return sim.KindTerrain, true, nil
	case 'P':
		return sim.KindPlayer, true, nil
	case 'S':
		return sim.KindSack, true, nil
	case 'G':
		return sim.KindGold, true, nil
	case 'M', 'W':
		return sim.KindMonster, true, nil
	}
	return 0, false, fmt.Errorf("%w %q", ErrUnknownTile, ch)
}

// SplitRows splits layout text into rows. Carriage returns are dropped and
// empty lines before the first row and after the last row are ignored. A row
// of spaces is a row of empty cells and is kept.
func SplitRows(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	lines := strings.Split(text, "\n")

	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}

// ParseLayout parses layout text into a board holding exactly one player.
func ParseLayout(text string) (*sim.Board, error) {
	return ParseRows(SplitRows(text))
}

// ParseRows builds a board from equal-width rows, one character per cell.
func ParseRows(rows []string) (*sim.Board, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyLayout
	}

	grid := make([][]rune, len(rows))
	for y, row := range rows {
		grid[y] = []rune(row)
	}
	w := len(grid[0])
	if w == 0 {
		return nil, ErrEmptyLayout
	}

	b := sim.NewBoard(w, len(grid))
	for y, row := range grid {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d", ErrRaggedRows, y, len(row), w)
		}
		for x, ch := range row {
			k, occupied, err := tileKind(ch)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y, x, err)
			}
			if occupied {
				b.Put(sim.C(x, y), k)
			}
		}
	}

	if err := sim.CheckPlayers(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Format renders a board as layout rows, using EmptyTile for empty cells.
func Format(b *sim.Board) []string {
	rows := b.Rows()
	for i, row := range rows {
		rows[i] = strings.ReplaceAll(row, " ", string(EmptyTile))
	}
	return rows
}
