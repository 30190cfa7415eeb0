package sim

// Kind identifies the variant of an entity.
type Kind uint8

const (
	KindTerrain Kind = iota
	KindPlayer
	KindSack
	KindGold
	KindMonster
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTerrain:
		return "Terrain"
	case KindPlayer:
		return "Player"
	case KindSack:
		return "Sack"
	case KindGold:
		return "Gold"
	case KindMonster:
		return "Monster"
	default:
		return "Unknown"
	}
}

// Rune returns the layout tag used for this kind in textual maps.
func (k Kind) Rune() rune {
	switch k {
	case KindTerrain:
		return 'T'
	case KindPlayer:
		return 'P'
	case KindSack:
		return 'S'
	case KindGold:
		return 'G'
	case KindMonster:
		return 'M'
	default:
		return '?'
	}
}

// DrawPriority orders kinds for drawing; lower values are drawn first.
func (k Kind) DrawPriority() int {
	switch k {
	case KindPlayer:
		return 0
	case KindTerrain:
		return 1
	case KindSack:
		return 2
	case KindGold:
		return 3
	case KindMonster:
		return 4
	default:
		return 5
	}
}

// Entity is a single occupant of a board cell.
// The board owns every entity; entities never hold references to each other.
type Entity struct {
	Kind Kind

	// steps counts consecutive fall steps of a sack.
	steps int
}

// New creates a fresh entity of the given kind.
func New(k Kind) *Entity {
	return &Entity{Kind: k}
}

// Is reports whether the entity is non-nil and of one of the given kinds.
func (e *Entity) Is(kinds ...Kind) bool {
	if e == nil {
		return false
	}
	for _, k := range kinds {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// clone returns an independent copy of the entity, including private state.
func (e *Entity) clone() *Entity {
	c := *e
	return &c
}
