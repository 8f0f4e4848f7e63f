package runner

import (
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cubelab/cubegym"
)

// scriptPolicy replays a fixed action sequence, cycling if it runs out.
type scriptPolicy struct {
	actions []int
	next    int
}

func (p *scriptPolicy) Name() string { return "script" }

func (p *scriptPolicy) NextAction(_ [cubegym.NumFacelets]cubegym.Color) int {
	a := p.actions[p.next%len(p.actions)]
	p.next++
	return a
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunSolvesWithScriptedPolicy(t *testing.T) {
	// From a solved start, R then R' solves on the second step.
	policy := &scriptPolicy{actions: []int{8, 9}}
	cfg := Config{Episodes: 1, ScrambleMoves: 0, StepBudget: 10}

	r := New(cfg, policy, Hooks{}, quietLogger())
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Solved != 1 || result.Truncated != 0 || result.Aborted != 0 {
		t.Errorf("Expected one solved episode, got %+v", result)
	}
	if len(result.Episodes) != 1 {
		t.Fatalf("Expected 1 episode, got %d", len(result.Episodes))
	}

	ep := result.Episodes[0]
	if !ep.Solved || ep.Steps != 2 {
		t.Errorf("Episode should solve in 2 steps: %+v", ep)
	}
	want := -12.0/float64(cubegym.NumFacelets) + cubegym.SolvedReward
	if ep.TotalReward != want {
		t.Errorf("Expected total reward %v, got %v", want, ep.TotalReward)
	}
	if result.TotalSteps != 2 {
		t.Errorf("Expected 2 total steps, got %d", result.TotalSteps)
	}
}

func TestRunTruncatesAtBudget(t *testing.T) {
	// Turning U forever never solves.
	policy := &scriptPolicy{actions: []int{0}}
	cfg := Config{Episodes: 2, ScrambleMoves: 0, StepBudget: 3}

	r := New(cfg, policy, Hooks{}, quietLogger())
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Truncated != 2 || result.Solved != 0 {
		t.Errorf("Expected two truncated episodes, got %+v", result)
	}
	for _, ep := range result.Episodes {
		if ep.Steps != 3 {
			t.Errorf("Episode %d should use the whole budget, took %d steps", ep.Index, ep.Steps)
		}
	}
}

func TestRunFiresHooksInOrder(t *testing.T) {
	policy := &scriptPolicy{actions: []int{8, 9}}
	cfg := Config{Episodes: 1, ScrambleMoves: 0, StepBudget: 10}

	var started, steps, ended int
	hooks := Hooks{
		EpisodeStarted: func(episode int, scramble []cubegym.Move, state [cubegym.NumFacelets]cubegym.Color) {
			started++
			if len(scramble) != 0 {
				t.Errorf("Scramble of length 0 expected, got %d", len(scramble))
			}
			if steps != 0 || ended != 0 {
				t.Error("EpisodeStarted should fire before any step")
			}
		},
		StepTaken: func(event StepEvent) {
			steps++
			if event.Move != cubegym.AllMoves[event.Action] {
				t.Errorf("Step event move %s does not match action %d", event.Move, event.Action)
			}
			if event.Index != steps-1 {
				t.Errorf("Step index should count from 0, got %d", event.Index)
			}
		},
		EpisodeEnded: func(ep EpisodeResult) {
			ended++
			if steps != 2 {
				t.Errorf("EpisodeEnded should fire after both steps, saw %d", steps)
			}
		},
	}

	r := New(cfg, policy, hooks, quietLogger())
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if started != 1 || steps != 2 || ended != 1 {
		t.Errorf("Hook counts wrong: started=%d steps=%d ended=%d", started, steps, ended)
	}
}

func TestRunStepEventMisplaced(t *testing.T) {
	policy := &scriptPolicy{actions: []int{8, 9}}
	cfg := Config{Episodes: 1, ScrambleMoves: 0, StepBudget: 10}

	var counts []int
	hooks := Hooks{
		StepTaken: func(event StepEvent) {
			counts = append(counts, event.Misplaced)
		},
	}

	r := New(cfg, policy, hooks, quietLogger())
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(counts) != 2 || counts[0] != 12 || counts[1] != 0 {
		t.Errorf("Expected misplaced counts [12 0], got %v", counts)
	}
}

func TestRunRejectsInvalidPolicyAction(t *testing.T) {
	policy := &scriptPolicy{actions: []int{99}}
	cfg := Config{Episodes: 1, ScrambleMoves: 0, StepBudget: 10}

	r := New(cfg, policy, Hooks{}, quietLogger())
	if _, err := r.Run(context.Background()); err == nil {
		t.Error("Out-of-range policy action should fail the run")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	policy := &scriptPolicy{actions: []int{0}}
	cfg := Config{Episodes: 100, ScrambleMoves: 0, StepBudget: 100}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(cfg, policy, Hooks{}, quietLogger())
	result, err := r.Run(ctx)
	if err == nil {
		t.Error("Cancelled run should return the context error")
	}
	if len(result.Episodes) != 0 {
		t.Errorf("Pre-cancelled run should complete no episodes, got %d", len(result.Episodes))
	}
}

func TestRunReproducibleWithSeed(t *testing.T) {
	collect := func() []string {
		var scrambles []string
		hooks := Hooks{
			EpisodeStarted: func(_ int, scramble []cubegym.Move, _ [cubegym.NumFacelets]cubegym.Color) {
				scrambles = append(scrambles, cubegym.FormatMoves(scramble))
			},
		}
		policy := NewRandomPolicy(rand.New(rand.NewSource(1)))
		cfg := Config{Episodes: 3, ScrambleMoves: 10, StepBudget: 5, Seed: 77}
		r := New(cfg, policy, hooks, quietLogger())
		if _, err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return scrambles
	}

	first := collect()
	second := collect()
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("Expected 3 scrambles each, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Scramble %d differs between seeded runs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestRandomPolicyStaysInRange(t *testing.T) {
	policy := NewRandomPolicy(rand.New(rand.NewSource(5)))
	var state [cubegym.NumFacelets]cubegym.Color
	for i := 0; i < 1000; i++ {
		a := policy.NextAction(state)
		if a < 0 || a >= cubegym.ActionCount {
			t.Fatalf("Action %d out of range", a)
		}
	}

	if NewRandomPolicy(nil).Name() != "random" {
		t.Error("Policy name should be random")
	}
}
