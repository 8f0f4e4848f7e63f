package cubegym

import (
	"fmt"
	"strings"
)

// Color identifies a facelet color. Colors and faces share one numbering:
// in the solved state every facelet on face f has color Color(f).
type Color byte

const (
	White  Color = 0 // Up face when solved
	Yellow Color = 1 // Down face when solved
	Green  Color = 2 // Front face when solved
	Blue   Color = 3 // Back face when solved
	Red    Color = 4 // Right face when solved
	Orange Color = 5 // Left face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// Face identifies one of the six cube faces.
type Face int

const (
	Up    Face = 0
	Down  Face = 1
	Front Face = 2
	Back  Face = 3
	Right Face = 4
	Left  Face = 5
)

const (
	numFaces        = 6
	faceletsPerFace = 9

	// NumFacelets is the total facelet count, and the length of State().
	NumFacelets = numFaces * faceletsPerFace
)

// Valid reports whether f is in [0,5].
func (f Face) Valid() bool {
	return f >= 0 && f < numFaces
}

// String returns the standard notation letter for the face.
func (f Face) String() string {
	switch f {
	case Up:
		return "U"
	case Down:
		return "D"
	case Front:
		return "F"
	case Back:
		return "B"
	case Right:
		return "R"
	case Left:
		return "L"
	default:
		return "?"
	}
}

// Cube is the facelet-level state of a 3x3x3 puzzle.
// Each face holds 9 facelets indexed row-major:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// The center (index 4) never moves. All mutation goes through Reset, the
// move operations, and Scramble; every other method is a pure read.
//
// A Cube is not safe for concurrent use. Each episode owns its own
// instance exclusively.
type Cube struct {
	facelets [numFaces][faceletsPerFace]Color
}

// New returns a solved cube: every facelet on face f has color Color(f).
func New() *Cube {
	c := &Cube{}
	c.Reset()
	return c
}

// Reset returns the cube to the solved state. Idempotent.
func (c *Cube) Reset() {
	for f := 0; f < numFaces; f++ {
		for i := 0; i < faceletsPerFace; i++ {
			c.facelets[f][i] = Color(f)
		}
	}
}

// Clone returns a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	dup := *c
	return &dup
}

// IsSolved reports whether every facelet matches its home face.
func (c *Cube) IsSolved() bool {
	for f := 0; f < numFaces; f++ {
		for i := 0; i < faceletsPerFace; i++ {
			if c.facelets[f][i] != Color(f) {
				return false
			}
		}
	}
	return true
}

// Misplaced returns the number of facelets whose color differs from their
// home face. Centers never move, so the count is at most 48; it is 0
// exactly when the cube is solved.
func (c *Cube) Misplaced() int {
	n := 0
	for f := 0; f < numFaces; f++ {
		for i := 0; i < faceletsPerFace; i++ {
			if c.facelets[f][i] != Color(f) {
				n++
			}
		}
	}
	return n
}

// State returns the full state as a flat array of 54 colors ordered by
// (face, row, column): index = face*9 + row*3 + column. The array is a
// copy; mutating it does not touch the cube.
func (c *Cube) State() [NumFacelets]Color {
	var s [NumFacelets]Color
	for f := 0; f < numFaces; f++ {
		copy(s[f*faceletsPerFace:(f+1)*faceletsPerFace], c.facelets[f][:])
	}
	return s
}

// Facelet returns the color at position i (0..8, row-major) of face f.
func (c *Cube) Facelet(f Face, i int) Color {
	return c.facelets[f][i]
}

// RotateFace rotates only face f's own 3x3 grid by 90 degrees, leaving the
// neighboring strips untouched. It is the first half of a move; callers
// almost always want Apply instead. Returns ErrInvalidMove if f is out of
// range, before any mutation.
func (c *Cube) RotateFace(f Face, clockwise bool) error {
	if !f.Valid() {
		return fmt.Errorf("%w: face %d", ErrInvalidMove, f)
	}
	c.rotateFace(f, clockwise)
	return nil
}

// rotateFace turns face f's grid in place as two 4-cycles.
// Clockwise corners: 0->2->8->6, edges: 1->5->7->3.
func (c *Cube) rotateFace(f Face, clockwise bool) {
	g := &c.facelets[f]
	if clockwise {
		t := g[0]
		g[0] = g[6]
		g[6] = g[8]
		g[8] = g[2]
		g[2] = t

		t = g[1]
		g[1] = g[3]
		g[3] = g[7]
		g[7] = g[5]
		g[5] = t
		return
	}

	t := g[0]
	g[0] = g[2]
	g[2] = g[8]
	g[8] = g[6]
	g[6] = t

	t = g[1]
	g[1] = g[5]
	g[5] = g[7]
	g[7] = g[3]
	g[3] = t
}

// Apply performs one complete move: the face's own grid rotates, then the
// four adjacent strips shift by one position. The two halves are atomic;
// no intermediate state is observable. Returns ErrInvalidMove for a face
// outside [0,5], in which case the cube is unchanged.
func (c *Cube) Apply(m Move) error {
	if !m.Face.Valid() {
		return fmt.Errorf("%w: face %d", ErrInvalidMove, m.Face)
	}
	c.apply(m)
	return nil
}

// apply assumes m has already been validated.
func (c *Cube) apply(m Move) {
	c.rotateFace(m.Face, m.Clockwise)
	c.propagateAdjacent(m.Face, m.Clockwise)
}

// ApplyMoves applies moves in order. Each move is validated immediately
// before it is applied: an invalid move stops the sequence and mutates
// nothing itself, but earlier moves stay applied.
func (c *Cube) ApplyMoves(moves []Move) error {
	for _, m := range moves {
		if err := c.Apply(m); err != nil {
			return err
		}
	}
	return nil
}

// String renders the cube as a text net: U on top, then the L F R B band,
// then D. Useful in test failures and terminal output.
func (c *Cube) String() string {
	var b strings.Builder

	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(c.facelets[Up][row*3+col].String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	for row := 0; row < 3; row++ {
		for _, f := range [4]Face{Left, Front, Right, Back} {
			for col := 0; col < 3; col++ {
				b.WriteString(c.facelets[f][row*3+col].String())
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}

	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(c.facelets[Down][row*3+col].String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	return b.String()
}
