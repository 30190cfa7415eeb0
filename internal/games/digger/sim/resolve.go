package sim

// Outcome is the result of a single conflict between two entities.
type Outcome struct {
	IncomingDies bool
	OccupantDies bool
	Score        int
}

// Resolve decides a conflict between an entity entering a cell and the
// entity already there. Each side is asked independently whether it dies
// against the other. Gold picked up by a player awards GoldReward, once.
func Resolve(incoming, occupant *Entity) Outcome {
	out := Outcome{
		IncomingDies: DiesAgainst(incoming, occupant),
		OccupantDies: DiesAgainst(occupant, incoming),
	}
	if pickedUp(incoming, occupant, out.IncomingDies) || pickedUp(occupant, incoming, out.OccupantDies) {
		out.Score = GoldReward
	}
	return out
}

// pickedUp reports whether gold g was consumed by player p in this conflict.
func pickedUp(g, p *Entity, goldDies bool) bool {
	return goldDies && g.Is(KindGold) && p.Is(KindPlayer)
}
