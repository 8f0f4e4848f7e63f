// Package cubegym models a 3x3x3 twisty puzzle as a discrete-state
// environment for trial-and-error learning agents.
//
// # Features
//
//   - Exact facelet-level cube state with an explicit, tested adjacency table
//   - Quarter-turn move engine with validation before any mutation
//   - Seedable scrambling for reproducible episodes
//   - A fixed 12-action episode environment (Env) with reward and
//     termination signals
//   - Standard move notation parsing and formatting
//
// # Quick Start
//
// Drive the cube directly:
//
//	c := cubegym.New()
//
//	// Apply moves using predefined constants
//	if err := c.ApplyMoves(cubegym.SexyMove); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or from notation
//	moves, _ := cubegym.ParseMoves("F B2 L' D")
//	c.ApplyMoves(moves)
//
//	fmt.Println("Solved:", c.IsSolved())
//	fmt.Println(c.String())
//
// # Episodes
//
// Env wraps a cube in the fixed environment contract used by learning
// agents: 12 discrete actions (action = face*2, +1 for counter-clockwise),
// +10 reward on solve, a small negative reward otherwise, and termination
// on solve or step-budget exhaustion.
//
//	env := cubegym.NewEnv(cubegym.WithSeed(42))
//	state := env.Reset(20)
//
//	for {
//	    res, err := env.Step(rng.Intn(cubegym.ActionCount))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    state = res.State
//	    if res.Terminated || res.Truncated {
//	        break
//	    }
//	}
//	_ = state
//
// # Predefined Moves
//
// The package provides predefined quarter turns for convenience:
//
//	cubegym.R      // Right clockwise
//	cubegym.RPrime // Right counter-clockwise
//	// ... and similarly for L, U, D, F, B
//
// AllMoves lists all twelve in action-index order, so AllMoves[a] is the
// move that action a decodes to.
package cubegym
