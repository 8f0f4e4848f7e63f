package cubegym

import "fmt"

// Strip identifies the three facelets on a neighboring face that border the
// face being rotated. Indices are explicit constants rather than computed
// row/column slices: the triple pins down both which axis the strip runs
// along on its host face and the direction it is read in, so a strip always
// transfers as a whole unit with its orientation intact whether it is a row
// or a column there.
type Strip struct {
	Face    Face
	Indices [3]int
}

// adjacency maps each face to its four bordering strips in canonical cyclic
// order: turning the face clockwise shifts strip i's content to strip i+1
// (wrapping), so strip i receives what strip i-1 held. Counter-clockwise
// runs the same cycle backwards.
//
// Derived from cube geometry with facelets numbered 0..8 row-major on every
// face and the cube held Up-face up, Front-face toward the viewer. Each
// entry notes where the strip sits on its host face and its read direction.
// The tests pin these constants exactly; change them only with the geometry
// in hand.
var adjacency = [numFaces][4]Strip{
	Up: {
		{Front, [3]int{0, 1, 2}}, // F top row, left to right
		{Left, [3]int{0, 1, 2}},  // L top row, left to right
		{Back, [3]int{0, 1, 2}},  // B top row, left to right
		{Right, [3]int{0, 1, 2}}, // R top row, left to right
	},
	Down: {
		{Front, [3]int{6, 7, 8}}, // F bottom row, left to right
		{Right, [3]int{6, 7, 8}}, // R bottom row, left to right
		{Back, [3]int{6, 7, 8}},  // B bottom row, left to right
		{Left, [3]int{6, 7, 8}},  // L bottom row, left to right
	},
	Front: {
		{Up, [3]int{6, 7, 8}},    // U bottom row, left to right
		{Right, [3]int{0, 3, 6}}, // R left column, top to bottom
		{Down, [3]int{2, 1, 0}},  // D top row, right to left
		{Left, [3]int{8, 5, 2}},  // L right column, bottom to top
	},
	Back: {
		{Up, [3]int{2, 1, 0}},    // U top row, right to left
		{Left, [3]int{0, 3, 6}},  // L left column, top to bottom
		{Down, [3]int{6, 7, 8}},  // D bottom row, left to right
		{Right, [3]int{8, 5, 2}}, // R right column, bottom to top
	},
	Right: {
		{Up, [3]int{2, 5, 8}},    // U right column, top to bottom
		{Back, [3]int{6, 3, 0}},  // B left column, bottom to top
		{Down, [3]int{2, 5, 8}},  // D right column, top to bottom
		{Front, [3]int{2, 5, 8}}, // F right column, top to bottom
	},
	Left: {
		{Up, [3]int{0, 3, 6}},    // U left column, top to bottom
		{Front, [3]int{0, 3, 6}}, // F left column, top to bottom
		{Down, [3]int{0, 3, 6}},  // D left column, top to bottom
		{Back, [3]int{8, 5, 2}},  // B right column, bottom to top
	},
}

// AdjacentStrips returns the four strips bordering face f, in the canonical
// clockwise cycle order described on the adjacency table. The result is a
// copy; the table itself never changes. Returns ErrInvalidMove if f is out
// of range.
func AdjacentStrips(f Face) ([4]Strip, error) {
	if !f.Valid() {
		return [4]Strip{}, fmt.Errorf("%w: face %d", ErrInvalidMove, f)
	}
	return adjacency[f], nil
}

// PropagateAdjacent shifts the four strips bordering face f by one position
// around the cycle, each strip moving as a whole 3-facelet unit. It is the
// second half of a move; callers almost always want Apply instead. Returns
// ErrInvalidMove if f is out of range, before any mutation.
func (c *Cube) PropagateAdjacent(f Face, clockwise bool) error {
	if !f.Valid() {
		return fmt.Errorf("%w: face %d", ErrInvalidMove, f)
	}
	c.propagateAdjacent(f, clockwise)
	return nil
}

// propagateAdjacent assumes f has already been validated.
func (c *Cube) propagateAdjacent(f Face, clockwise bool) {
	strips := &adjacency[f]
	if clockwise {
		// Strip i takes strip i-1's content: save the last strip, walk the
		// cycle backwards, then drop the saved values into strip 0.
		saved := c.readStrip(strips[3])
		c.writeStrip(strips[3], c.readStrip(strips[2]))
		c.writeStrip(strips[2], c.readStrip(strips[1]))
		c.writeStrip(strips[1], c.readStrip(strips[0]))
		c.writeStrip(strips[0], saved)
		return
	}

	saved := c.readStrip(strips[0])
	c.writeStrip(strips[0], c.readStrip(strips[1]))
	c.writeStrip(strips[1], c.readStrip(strips[2]))
	c.writeStrip(strips[2], c.readStrip(strips[3]))
	c.writeStrip(strips[3], saved)
}

func (c *Cube) readStrip(s Strip) [3]Color {
	return [3]Color{
		c.facelets[s.Face][s.Indices[0]],
		c.facelets[s.Face][s.Indices[1]],
		c.facelets[s.Face][s.Indices[2]],
	}
}

func (c *Cube) writeStrip(s Strip, v [3]Color) {
	c.facelets[s.Face][s.Indices[0]] = v[0]
	c.facelets[s.Face][s.Indices[1]] = v[1]
	c.facelets[s.Face][s.Indices[2]] = v[2]
}
