package cubegym

import (
	"errors"
	"testing"
)

// TestAdjacencyTablePinned locks the full strip table to the cube geometry
// it was derived from. A failure here means the table changed, not the
// test: re-derive with a physical cube in hand before touching either.
func TestAdjacencyTablePinned(t *testing.T) {
	want := map[Face][4]Strip{
		Up: {
			{Front, [3]int{0, 1, 2}},
			{Left, [3]int{0, 1, 2}},
			{Back, [3]int{0, 1, 2}},
			{Right, [3]int{0, 1, 2}},
		},
		Down: {
			{Front, [3]int{6, 7, 8}},
			{Right, [3]int{6, 7, 8}},
			{Back, [3]int{6, 7, 8}},
			{Left, [3]int{6, 7, 8}},
		},
		Front: {
			{Up, [3]int{6, 7, 8}},
			{Right, [3]int{0, 3, 6}},
			{Down, [3]int{2, 1, 0}},
			{Left, [3]int{8, 5, 2}},
		},
		Back: {
			{Up, [3]int{2, 1, 0}},
			{Left, [3]int{0, 3, 6}},
			{Down, [3]int{6, 7, 8}},
			{Right, [3]int{8, 5, 2}},
		},
		Right: {
			{Up, [3]int{2, 5, 8}},
			{Back, [3]int{6, 3, 0}},
			{Down, [3]int{2, 5, 8}},
			{Front, [3]int{2, 5, 8}},
		},
		Left: {
			{Up, [3]int{0, 3, 6}},
			{Front, [3]int{0, 3, 6}},
			{Down, [3]int{0, 3, 6}},
			{Back, [3]int{8, 5, 2}},
		},
	}

	for f, strips := range want {
		got, err := AdjacentStrips(f)
		if err != nil {
			t.Fatalf("AdjacentStrips(%s) failed: %v", f, err)
		}
		if got != strips {
			t.Errorf("Strips for %s:\n  got  %v\n  want %v", f, got, strips)
		}
	}
}

func TestAdjacencyTableShape(t *testing.T) {
	opposite := map[Face]Face{
		Up: Down, Down: Up,
		Front: Back, Back: Front,
		Right: Left, Left: Right,
	}

	for f := Face(0); f < numFaces; f++ {
		strips, err := AdjacentStrips(f)
		if err != nil {
			t.Fatalf("AdjacentStrips(%s) failed: %v", f, err)
		}

		seen := make(map[[2]int]bool)
		for _, s := range strips {
			if s.Face == f {
				t.Errorf("%s strips should never touch the rotated face itself", f)
			}
			if s.Face == opposite[f] {
				t.Errorf("%s strips should never touch the opposite face %s", f, opposite[f])
			}
			if !s.Face.Valid() {
				t.Errorf("%s strip names invalid face %d", f, s.Face)
			}
			for _, i := range s.Indices {
				if i < 0 || i >= faceletsPerFace {
					t.Errorf("%s strip index %d out of range", f, i)
				}
				key := [2]int{int(s.Face), i}
				if seen[key] {
					t.Errorf("%s strips reuse facelet %s[%d]", f, s.Face, i)
				}
				seen[key] = true
			}
		}
		if len(seen) != 12 {
			t.Errorf("%s strips should cover 12 distinct facelets, got %d", f, len(seen))
		}
	}
}

func TestAdjacentStripsInvalidFace(t *testing.T) {
	if _, err := AdjacentStrips(Face(6)); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Expected ErrInvalidMove for face 6, got %v", err)
	}
	if _, err := AdjacentStrips(Face(-1)); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Expected ErrInvalidMove for face -1, got %v", err)
	}
}

func TestPropagateAdjacentRoundTrip(t *testing.T) {
	for f := Face(0); f < numFaces; f++ {
		c := New()
		c.ApplyMoves([]Move{R, U, FPrime})
		before := c.State()

		if err := c.PropagateAdjacent(f, true); err != nil {
			t.Fatalf("PropagateAdjacent(%s) failed: %v", f, err)
		}
		if c.State() == before {
			t.Errorf("PropagateAdjacent(%s) should move the strips", f)
		}
		if err := c.PropagateAdjacent(f, false); err != nil {
			t.Fatalf("PropagateAdjacent(%s, ccw) failed: %v", f, err)
		}
		if c.State() != before {
			t.Errorf("PropagateAdjacent %s cw then ccw should restore the state", f)
			t.Log(c.String())
		}
	}
}

func TestPropagateAdjacentFourTimesIsIdentity(t *testing.T) {
	for f := Face(0); f < numFaces; f++ {
		c := New()
		c.ApplyMoves([]Move{F, U, L})
		before := c.State()

		for i := 0; i < 4; i++ {
			c.PropagateAdjacent(f, true)
		}
		if c.State() != before {
			t.Errorf("Four strip shifts around %s should be the identity", f)
			t.Log(c.String())
		}
	}
}

func TestPropagateAdjacentShiftsByOne(t *testing.T) {
	c := New()
	c.PropagateAdjacent(Up, true)

	// Clockwise shifts each strip's content one position along the cycle
	// F -> L -> B -> R, so L's top row now holds F's green.
	checks := []struct {
		face Face
		want Color
	}{
		{Left, Green},
		{Back, Orange},
		{Right, Blue},
		{Front, Red},
	}
	for _, check := range checks {
		for _, i := range []int{0, 1, 2} {
			if got := c.Facelet(check.face, i); got != check.want {
				t.Errorf("After shifting around Up, %s[%d] should be %s, got %s", check.face, i, check.want, got)
			}
		}
	}

	// The rotated face's own grid is propagation's business not to touch.
	for i := 0; i < faceletsPerFace; i++ {
		if got := c.Facelet(Up, i); got != White {
			t.Errorf("Up[%d] should stay %s, got %s", i, White, got)
		}
	}
}

func TestPropagateAdjacentInvalidFace(t *testing.T) {
	c := New()
	before := c.State()

	err := c.PropagateAdjacent(Face(12), true)
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("Expected ErrInvalidMove, got %v", err)
	}
	if c.State() != before {
		t.Error("Failed propagation should leave the cube unchanged")
	}
}
