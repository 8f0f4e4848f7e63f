package cubegym

// Progress summarizes how far a cube is from solved. It backs the shaped
// reward as well as the CLI status output.
type Progress struct {
	// Misplaced counts facelets whose color differs from their face.
	Misplaced int

	// SolvedFaces counts faces that are uniformly their own color.
	SolvedFaces int

	// PerFace holds the misplaced count for each face, indexed by Face.
	PerFace [numFaces]int
}

// FaceSolved reports whether every facelet on face f carries f's color.
// An invalid face is simply not solved.
func (c *Cube) FaceSolved(f Face) bool {
	if !f.Valid() {
		return false
	}
	want := Color(f)
	for _, got := range c.facelets[f] {
		if got != want {
			return false
		}
	}
	return true
}

// Progress computes the misplaced-facelet breakdown for the current state.
func (c *Cube) Progress() Progress {
	var p Progress
	for f := 0; f < numFaces; f++ {
		want := Color(f)
		for _, got := range c.facelets[f] {
			if got != want {
				p.PerFace[f]++
			}
		}
		p.Misplaced += p.PerFace[f]
		if p.PerFace[f] == 0 {
			p.SolvedFaces++
		}
	}
	return p
}
