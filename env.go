package cubegym

// DefaultStepBudget is how many steps an episode may run before truncation
// when WithStepBudget is not given.
const DefaultStepBudget = 100

// SolvedReward is the reward paid for the step that solves the cube.
// Every other step costs misplaced/54, keeping step penalties in (-1, 0].
const SolvedReward = 10.0

// StepResult is what one environment step reports back to the agent.
type StepResult struct {
	// State is the observation after the move, flat (face, row, column).
	State [NumFacelets]Color

	// Reward is SolvedReward on a solving step, otherwise
	// -misplaced/NumFacelets.
	Reward float64

	// Terminated is set when the step solved the cube.
	Terminated bool

	// Truncated is set when the step budget ran out without a solve.
	// A solve on the final budgeted step terminates rather than truncates.
	Truncated bool
}

// Env is the episode controller: it owns one Cube and runs the fixed
// trial-and-error contract against it. Reset scrambles a fresh cube and
// returns the initial observation; Step applies one of the 12 discrete
// actions and scores the result.
//
// An Env is single-threaded like the Cube it owns. Batched training runs
// one Env per worker.
type Env struct {
	cube     *Cube
	cfg      *config
	scramble []Move
	steps    int
}

// NewEnv creates an environment. Options control the step budget and the
// randomness source for scrambles.
func NewEnv(opts ...Option) *Env {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Env{
		cube: New(),
		cfg:  cfg,
	}
}

// Reset starts a new episode: the cube returns to solved, scrambleMoves
// random quarter turns are applied, and the resulting observation is
// returned. The applied scramble is kept for record-keeping and available
// from ScrambleMoves until the next Reset.
func (e *Env) Reset(scrambleMoves int) [NumFacelets]Color {
	e.cube.Reset()
	e.scramble = e.cube.Scramble(scrambleMoves, e.cfg.rng)
	e.steps = 0
	return e.cube.State()
}

// Step decodes the action, applies the move, and reports the new state,
// the reward, and the termination flags. An out-of-range action returns
// ErrInvalidMove without mutating anything or consuming a step.
func (e *Env) Step(action int) (StepResult, error) {
	move, err := MoveForAction(action)
	if err != nil {
		return StepResult{}, err
	}

	e.cube.apply(move)
	e.steps++

	res := StepResult{State: e.cube.State()}
	if e.cube.IsSolved() {
		res.Reward = SolvedReward
		res.Terminated = true
	} else {
		res.Reward = -float64(e.cube.Misplaced()) / float64(NumFacelets)
		res.Truncated = e.steps >= e.cfg.stepBudget
	}
	return res, nil
}

// Steps returns how many steps the current episode has taken.
func (e *Env) Steps() int {
	return e.steps
}

// StepBudget returns the configured per-episode step limit.
func (e *Env) StepBudget() int {
	return e.cfg.stepBudget
}

// ScrambleMoves returns a copy of the scramble applied by the last Reset.
func (e *Env) ScrambleMoves() []Move {
	return append([]Move(nil), e.scramble...)
}

// Cube returns a snapshot copy of the underlying cube for display and
// inspection. Mutating the copy does not affect the episode; all episode
// state changes go through Step.
func (e *Env) Cube() *Cube {
	return e.cube.Clone()
}
