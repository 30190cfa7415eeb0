package sim

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Snapshot captures the observable simulation state for determinism testing and replay.
type Snapshot struct {
	Tick        uint64
	Score       int
	PlayerAlive bool
	PlayerX     int
	PlayerY     int
	Gold        int
	Sacks       int
	Monsters    int
	Terrain     int
	Digest      string
}

// Snapshot returns the current snapshot.
func (s *Sim) Snapshot() Snapshot {
	st := s.Status()
	return Snapshot{
		Tick:        st.Tick,
		Score:       st.Score,
		PlayerAlive: st.PlayerAlive,
		PlayerX:     st.Player.X,
		PlayerY:     st.Player.Y,
		Gold:        st.GoldLeft,
		Sacks:       st.SacksLeft,
		Monsters:    st.Monsters,
		Terrain:     s.board.Count(KindTerrain),
		Digest:      s.Digest(),
	}
}

// Digest returns a hex SHA-256 over the tick, the score and every cell in
// visitation order, including sack fall counters.
func (s *Sim) Digest() string {
	h := sha256.New()
	var tmp [8]byte

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(tmp[:], v)
		h.Write(tmp[:])
	}

	writeU64(s.tick)
	writeU64(uint64(int64(s.score)))
	writeU64(uint64(s.board.W))
	writeU64(uint64(s.board.H))
	for x := 0; x < s.board.W; x++ {
		for y := 0; y < s.board.H; y++ {
			e := s.board.At(C(x, y))
			if e == nil {
				h.Write([]byte{0xff})
				continue
			}
			h.Write([]byte{byte(e.Kind)})
			writeU64(uint64(e.steps))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
