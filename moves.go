package cubegym

// Predefined moves for convenience.
// Use these instead of constructing Move structs manually.
//
// Example:
//
//	cube.ApplyMoves([]cubegym.Move{cubegym.R, cubegym.U, cubegym.RPrime, cubegym.UPrime})
var (
	// Up face moves
	U      = Move{Face: Up, Clockwise: true}
	UPrime = Move{Face: Up, Clockwise: false}

	// Down face moves
	D      = Move{Face: Down, Clockwise: true}
	DPrime = Move{Face: Down, Clockwise: false}

	// Front face moves
	F      = Move{Face: Front, Clockwise: true}
	FPrime = Move{Face: Front, Clockwise: false}

	// Back face moves
	B      = Move{Face: Back, Clockwise: true}
	BPrime = Move{Face: Back, Clockwise: false}

	// Right face moves
	R      = Move{Face: Right, Clockwise: true}
	RPrime = Move{Face: Right, Clockwise: false}

	// Left face moves
	L      = Move{Face: Left, Clockwise: true}
	LPrime = Move{Face: Left, Clockwise: false}
)

// AllMoves lists the full 12-move universe in action-index order, so
// AllMoves[a] is exactly the move that action a decodes to. Scrambling
// draws uniformly from this list.
var AllMoves = [ActionCount]Move{
	U, UPrime,
	D, DPrime,
	F, FPrime,
	B, BPrime,
	R, RPrime,
	L, LPrime,
}

// SexyMove is R U R' U', the most common trigger sequence. Six repetitions
// return a solved cube to solved, which makes it handy in tests.
var SexyMove = []Move{R, U, RPrime, UPrime}

// InverseSexyMove is U R U' R'.
var InverseSexyMove = []Move{U, R, UPrime, RPrime}
