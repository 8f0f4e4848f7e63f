// Package runner drives batches of episodes against the cube environment
// and reports per-episode and per-step events through hooks.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cubelab/cubegym"
)

// Config controls one batch run.
type Config struct {
	// Episodes is how many episodes to run.
	Episodes int

	// ScrambleMoves is the scramble length passed to each Reset.
	ScrambleMoves int

	// StepBudget caps each episode's length.
	StepBudget int

	// Seed seeds the environment's scrambles. Zero means time-seeded, so
	// every run differs; any other value makes the run reproducible.
	Seed int64
}

// StepEvent describes one applied step.
type StepEvent struct {
	Episode   int
	Index     int
	Action    int
	Move      cubegym.Move
	Result    cubegym.StepResult
	Misplaced int
}

// EpisodeResult is the outcome of one episode.
type EpisodeResult struct {
	Index       int
	Scramble    []cubegym.Move
	Steps       int
	TotalReward float64
	Solved      bool
	Truncated   bool
	Aborted     bool
	Duration    time.Duration
}

// Hooks receive runner events as they happen. Nil fields are skipped.
// Hooks run on the runner goroutine, so slow hooks slow the run.
type Hooks struct {
	EpisodeStarted func(episode int, scramble []cubegym.Move, state [cubegym.NumFacelets]cubegym.Color)
	StepTaken      func(StepEvent)
	EpisodeEnded   func(EpisodeResult)
}

// Result aggregates a whole run.
type Result struct {
	Episodes   []EpisodeResult
	Solved     int
	Truncated  int
	Aborted    int
	TotalSteps int
	Duration   time.Duration
}

// Runner executes episodes sequentially with one policy.
type Runner struct {
	cfg    Config
	policy Policy
	hooks  Hooks
	log    *logrus.Logger
}

// New creates a runner. A nil log falls back to the standard logger.
func New(cfg Config, policy Policy, hooks Hooks, log *logrus.Logger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		cfg:    cfg,
		policy: policy,
		hooks:  hooks,
		log:    log,
	}
}

// Run executes the configured number of episodes. Cancelling the context
// stops the run at the next step boundary; the episode in flight is
// reported as aborted and the partial result is returned together with the
// context's error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	opts := []cubegym.Option{cubegym.WithStepBudget(r.cfg.StepBudget)}
	if r.cfg.Seed != 0 {
		opts = append(opts, cubegym.WithSeed(r.cfg.Seed))
	}
	env := cubegym.NewEnv(opts...)

	var result Result
	started := time.Now()
	debug := r.log.IsLevelEnabled(logrus.DebugLevel)

	for episode := 0; episode < r.cfg.Episodes; episode++ {
		select {
		case <-ctx.Done():
			result.Duration = time.Since(started)
			return result, ctx.Err()
		default:
		}

		state := env.Reset(r.cfg.ScrambleMoves)
		scramble := env.ScrambleMoves()
		if r.hooks.EpisodeStarted != nil {
			r.hooks.EpisodeStarted(episode, scramble, state)
		}

		ep := EpisodeResult{Index: episode, Scramble: scramble}
		epStart := time.Now()

		for {
			select {
			case <-ctx.Done():
				ep.Aborted = true
				ep.Duration = time.Since(epStart)
				r.finishEpisode(&result, ep)
				result.Duration = time.Since(started)
				return result, ctx.Err()
			default:
			}

			action := r.policy.NextAction(state)
			res, err := env.Step(action)
			if err != nil {
				return result, fmt.Errorf("policy %q chose action %d: %w", r.policy.Name(), action, err)
			}

			state = res.State
			ep.Steps++
			ep.TotalReward += res.Reward

			if r.hooks.StepTaken != nil || debug {
				event := StepEvent{
					Episode:   episode,
					Index:     ep.Steps - 1,
					Action:    action,
					Move:      cubegym.AllMoves[action],
					Result:    res,
					Misplaced: env.Cube().Misplaced(),
				}
				if r.hooks.StepTaken != nil {
					r.hooks.StepTaken(event)
				}
				if debug {
					r.log.WithFields(logrus.Fields{
						"episode":   episode,
						"step":      event.Index,
						"move":      event.Move.Notation(),
						"reward":    res.Reward,
						"misplaced": event.Misplaced,
					}).Debug("step taken")
				}
			}

			if res.Terminated {
				ep.Solved = true
				break
			}
			if res.Truncated {
				ep.Truncated = true
				break
			}
		}

		ep.Duration = time.Since(epStart)
		r.finishEpisode(&result, ep)
	}

	result.Duration = time.Since(started)
	r.log.WithFields(logrus.Fields{
		"episodes":  len(result.Episodes),
		"solved":    result.Solved,
		"truncated": result.Truncated,
		"steps":     result.TotalSteps,
		"duration":  result.Duration,
	}).Info("run finished")

	return result, nil
}

func (r *Runner) finishEpisode(result *Result, ep EpisodeResult) {
	result.Episodes = append(result.Episodes, ep)
	result.TotalSteps += ep.Steps
	switch {
	case ep.Solved:
		result.Solved++
	case ep.Aborted:
		result.Aborted++
	case ep.Truncated:
		result.Truncated++
	}

	if r.hooks.EpisodeEnded != nil {
		r.hooks.EpisodeEnded(ep)
	}

	r.log.WithFields(logrus.Fields{
		"episode": ep.Index,
		"steps":   ep.Steps,
		"reward":  ep.TotalReward,
		"outcome": outcome(ep),
	}).Info("episode finished")
}

func outcome(ep EpisodeResult) string {
	switch {
	case ep.Solved:
		return "solved"
	case ep.Aborted:
		return "aborted"
	case ep.Truncated:
		return "truncated"
	default:
		return "running"
	}
}
