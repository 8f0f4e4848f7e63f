package runner

import (
	"math/rand"
	"time"

	"github.com/cubelab/cubegym"
)

// Policy chooses the next action for an observation. Implementations are
// called from a single goroutine per runner.
type Policy interface {
	// Name identifies the policy in logs and episode records.
	Name() string

	// NextAction returns an action index in [0, cubegym.ActionCount).
	NextAction(state [cubegym.NumFacelets]cubegym.Color) int
}

// RandomPolicy picks uniformly among all actions, ignoring the observation.
// It is the trial-and-error baseline every learned policy has to beat.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy creates a random policy. A nil rng falls back to a
// time-seeded source.
func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomPolicy{rng: rng}
}

// Name implements Policy.
func (p *RandomPolicy) Name() string {
	return "random"
}

// NextAction implements Policy.
func (p *RandomPolicy) NextAction(_ [cubegym.NumFacelets]cubegym.Color) int {
	return p.rng.Intn(cubegym.ActionCount)
}
