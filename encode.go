package cubegym

import "fmt"

// EncodeState renders a flat state as a 54-letter string, one color letter
// per facelet in (face, row, column) order. The encoding round-trips through
// DecodeState and is what the episode store and exporters persist.
func EncodeState(s [NumFacelets]Color) string {
	buf := make([]byte, NumFacelets)
	for i, c := range s {
		buf[i] = c.String()[0]
	}
	return string(buf)
}

// DecodeState parses a 54-letter state string back into a flat state.
func DecodeState(s string) ([NumFacelets]Color, error) {
	var out [NumFacelets]Color
	if len(s) != NumFacelets {
		return out, fmt.Errorf("%w: length %d", ErrInvalidState, len(s))
	}
	for i := 0; i < NumFacelets; i++ {
		c, ok := colorForLetter(s[i])
		if !ok {
			return out, fmt.Errorf("%w: letter %q at %d", ErrInvalidState, s[i], i)
		}
		out[i] = c
	}
	return out, nil
}

func colorForLetter(b byte) (Color, bool) {
	switch b {
	case 'W', 'w':
		return White, true
	case 'Y', 'y':
		return Yellow, true
	case 'G', 'g':
		return Green, true
	case 'B', 'b':
		return Blue, true
	case 'R', 'r':
		return Red, true
	case 'O', 'o':
		return Orange, true
	default:
		return 0, false
	}
}

// CubeFromState builds a cube holding the given flat state. No solvability
// check is made; the state is taken as given.
func CubeFromState(s [NumFacelets]Color) *Cube {
	c := &Cube{}
	for f := 0; f < numFaces; f++ {
		copy(c.facelets[f][:], s[f*faceletsPerFace:(f+1)*faceletsPerFace])
	}
	return c
}
