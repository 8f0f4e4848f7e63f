package cubegym

import "math/rand"

// Option configures an Env.
type Option func(*config)

type config struct {
	stepBudget int
	rng        *rand.Rand
}

func defaultConfig() *config {
	return &config{
		stepBudget: DefaultStepBudget,
	}
}

// WithStepBudget sets how many steps an episode may run before it is
// truncated. Values below 1 are ignored and the default stands.
func WithStepBudget(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.stepBudget = n
		}
	}
}

// WithRand sets the randomness source used for scrambling on Reset.
// Passing a seeded source makes every episode's scramble reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// WithSeed is shorthand for WithRand with a source seeded from seed.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}
