// Package analysis computes statistics over recorded episodes.
package analysis

import (
	"github.com/cubelab/cubegym/internal/storage"
)

// RunSummary aggregates statistics across a set of episodes.
type RunSummary struct {
	Episodes       int     `json:"episodes"`
	Solved         int     `json:"solved"`
	Truncated      int     `json:"truncated"`
	Aborted        int     `json:"aborted"`
	SolveRate      float64 `json:"solve_rate"`
	TotalSteps     int     `json:"total_steps"`
	MeanSteps      float64 `json:"mean_steps"`
	MinSteps       int     `json:"min_steps"`
	MaxSteps       int     `json:"max_steps"`
	MeanReward     float64 `json:"mean_reward"`
	BestReward     float64 `json:"best_reward"`
	WorstReward    float64 `json:"worst_reward"`
	MeanSolveSteps float64 `json:"mean_solve_steps,omitempty"`
}

// Summarize aggregates episodes into a run summary. MeanSolveSteps covers
// solved episodes only.
func Summarize(episodes []storage.Episode) RunSummary {
	s := RunSummary{Episodes: len(episodes)}
	if len(episodes) == 0 {
		return s
	}

	s.MinSteps = episodes[0].Steps
	s.BestReward = episodes[0].TotalReward
	s.WorstReward = episodes[0].TotalReward

	var rewardSum float64
	var solveSteps int
	for _, ep := range episodes {
		switch ep.Outcome {
		case storage.OutcomeSolved:
			s.Solved++
			solveSteps += ep.Steps
		case storage.OutcomeTruncated:
			s.Truncated++
		case storage.OutcomeAborted:
			s.Aborted++
		}

		s.TotalSteps += ep.Steps
		rewardSum += ep.TotalReward

		if ep.Steps < s.MinSteps {
			s.MinSteps = ep.Steps
		}
		if ep.Steps > s.MaxSteps {
			s.MaxSteps = ep.Steps
		}
		if ep.TotalReward > s.BestReward {
			s.BestReward = ep.TotalReward
		}
		if ep.TotalReward < s.WorstReward {
			s.WorstReward = ep.TotalReward
		}
	}

	s.SolveRate = float64(s.Solved) / float64(len(episodes))
	s.MeanSteps = float64(s.TotalSteps) / float64(len(episodes))
	s.MeanReward = rewardSum / float64(len(episodes))
	if s.Solved > 0 {
		s.MeanSolveSteps = float64(solveSteps) / float64(s.Solved)
	}

	return s
}

// EpisodeTrace summarizes the step records of a single episode.
type EpisodeTrace struct {
	Steps          int     `json:"steps"`
	TotalReward    float64 `json:"total_reward"`
	FirstMisplaced int     `json:"first_misplaced"`
	LastMisplaced  int     `json:"last_misplaced"`
	BestMisplaced  int     `json:"best_misplaced"`
	Solved         bool    `json:"solved"`
}

// TraceEpisode walks ordered step records and reports how close the agent
// got to the solved state.
func TraceEpisode(steps []storage.StepRecord) EpisodeTrace {
	t := EpisodeTrace{Steps: len(steps)}
	if len(steps) == 0 {
		return t
	}

	t.FirstMisplaced = steps[0].Misplaced
	t.BestMisplaced = steps[0].Misplaced

	for _, s := range steps {
		t.TotalReward += s.Reward
		t.LastMisplaced = s.Misplaced
		if s.Misplaced < t.BestMisplaced {
			t.BestMisplaced = s.Misplaced
		}
		if s.Terminated {
			t.Solved = true
		}
	}

	return t
}
