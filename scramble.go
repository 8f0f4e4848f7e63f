package cubegym

import (
	"math/rand"
	"time"
)

// Scramble applies n quarter turns drawn uniformly from the 12-move
// universe and returns them in order, so any scramble can be reproduced or
// inverted later. rng is the randomness source; pass a seeded *rand.Rand
// for deterministic scrambles. A nil rng falls back to a source seeded
// from the clock, constructed here rather than shared package state.
// n <= 0 applies nothing and returns an empty list.
func (c *Cube) Scramble(n int, rng *rand.Rand) []Move {
	if n <= 0 {
		return []Move{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	moves := make([]Move, n)
	for i := range moves {
		m := AllMoves[rng.Intn(len(AllMoves))]
		c.apply(m)
		moves[i] = m
	}
	return moves
}
