package cubegym

import (
	"math/rand"
	"testing"
)

func TestScrambleZeroMovesStaysSolved(t *testing.T) {
	c := New()
	moves := c.Scramble(0, rand.New(rand.NewSource(1)))
	if len(moves) != 0 {
		t.Errorf("Scramble(0) should apply no moves, got %d", len(moves))
	}
	if !c.IsSolved() {
		t.Error("Cube should stay solved after Scramble(0)")
	}

	if moves := c.Scramble(-3, nil); len(moves) != 0 {
		t.Errorf("Negative scramble length should apply nothing, got %d moves", len(moves))
	}
}

func TestScrambleReturnsAppliedMoves(t *testing.T) {
	c := New()
	moves := c.Scramble(25, rand.New(rand.NewSource(7)))
	if len(moves) != 25 {
		t.Fatalf("Expected 25 moves, got %d", len(moves))
	}

	// Replaying the returned sequence on a fresh cube reproduces the state.
	replay := New()
	if err := replay.ApplyMoves(moves); err != nil {
		t.Fatalf("Replaying scramble failed: %v", err)
	}
	if replay.State() != c.State() {
		t.Error("Replaying the returned moves should reproduce the scramble")
		t.Log(c.String())
		t.Log(replay.String())
	}
}

func TestScrambleDeterministicPerSeed(t *testing.T) {
	c1 := New()
	c2 := New()
	m1 := c1.Scramble(30, rand.New(rand.NewSource(42)))
	m2 := c2.Scramble(30, rand.New(rand.NewSource(42)))

	if FormatMoves(m1) != FormatMoves(m2) {
		t.Errorf("Same seed should give the same scramble:\n  %s\n  %s", FormatMoves(m1), FormatMoves(m2))
	}
	if c1.State() != c2.State() {
		t.Error("Same seed should give the same state")
	}

	c3 := New()
	m3 := c3.Scramble(30, rand.New(rand.NewSource(43)))
	if FormatMoves(m1) == FormatMoves(m3) {
		t.Error("Different seeds should not give the same 30-move scramble")
	}
}

func TestScrambleInversionSolves(t *testing.T) {
	c := New()
	moves := c.Scramble(40, rand.New(rand.NewSource(99)))

	for i := len(moves) - 1; i >= 0; i-- {
		c.Apply(moves[i].Inverse())
	}
	if !c.IsSolved() {
		t.Error("Undoing a scramble move by move should solve the cube")
		t.Log(c.String())
	}
}

func TestScrambleNilSourceStillScrambles(t *testing.T) {
	c := New()
	moves := c.Scramble(20, nil)
	if len(moves) != 20 {
		t.Fatalf("Expected 20 moves, got %d", len(moves))
	}
	for _, m := range moves {
		if !m.Face.Valid() {
			t.Errorf("Scramble produced invalid move %+v", m)
		}
	}
}
