package cubegym

import "fmt"

// ActionCount is the size of the discrete action space: six faces times two
// directions. Action a encodes the move (face a/2, clockwise when a is
// even), so actions 0..11 enumerate U U' D D' F F' B B' R R' L L'.
const ActionCount = numFaces * 2

// MoveForAction decodes a discrete action index into its move. Returns
// ErrInvalidMove for indices outside [0,ActionCount).
func MoveForAction(action int) (Move, error) {
	if action < 0 || action >= ActionCount {
		return Move{}, fmt.Errorf("%w: action %d", ErrInvalidMove, action)
	}
	return Move{Face: Face(action / 2), Clockwise: action%2 == 0}, nil
}

// ActionForMove encodes a move as its action index. It is the inverse of
// MoveForAction for valid moves; the move's face must be in range.
func ActionForMove(m Move) int {
	action := int(m.Face) * 2
	if !m.Clockwise {
		action++
	}
	return action
}
