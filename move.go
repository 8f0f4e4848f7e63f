package cubegym

import (
	"fmt"
	"strings"
)

// Move is a quarter turn of one face. Faces and directions are the whole
// move vocabulary: a half turn is two moves.
type Move struct {
	Face      Face
	Clockwise bool
}

// Notation returns the standard cube notation for the move.
// Examples: R for a clockwise right turn, R' for counter-clockwise.
func (m Move) Notation() string {
	if m.Clockwise {
		return m.Face.String()
	}
	return m.Face.String() + "'"
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the move that undoes this one: same face, opposite
// direction.
func (m Move) Inverse() Move {
	return Move{Face: m.Face, Clockwise: !m.Clockwise}
}

// ParseMove parses a single notation token: R, R', U, U', ...
// A move is one quarter turn, so half-turn tokens (R2) are rejected here;
// ParseMoves expands them instead.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Move{}, ErrInvalidNotation
	}

	face, ok := faceForLetter(s[0])
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	switch s[1:] {
	case "":
		return Move{Face: face, Clockwise: true}, nil
	case "'", "`":
		return Move{Face: face, Clockwise: false}, nil
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
}

// ParseMoves parses a space-separated notation sequence into quarter turns.
// Half-turn tokens expand to two clockwise quarter turns, so "R2 U'" yields
// three moves. Any unparseable token fails the whole sequence.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		if face, ok := parseHalfTurn(part); ok {
			m := Move{Face: face, Clockwise: true}
			moves = append(moves, m, m)
			continue
		}
		m, err := ParseMove(part)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}

	return moves, nil
}

// parseHalfTurn recognizes the 180-degree tokens R2, R2' and friends.
func parseHalfTurn(s string) (Face, bool) {
	if len(s) < 2 {
		return 0, false
	}
	face, ok := faceForLetter(s[0])
	if !ok {
		return 0, false
	}
	switch s[1:] {
	case "2", "2'", "2`":
		return face, true
	default:
		return 0, false
	}
}

func faceForLetter(b byte) (Face, bool) {
	switch b {
	case 'U', 'u':
		return Up, true
	case 'D', 'd':
		return Down, true
	case 'F', 'f':
		return Front, true
	case 'B', 'b':
		return Back, true
	case 'R', 'r':
		return Right, true
	case 'L', 'l':
		return Left, true
	default:
		return 0, false
	}
}

// FormatMoves formats a move sequence as space-separated notation.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}
