package analysis

import (
	"github.com/cubelab/cubegym"

	"github.com/cubelab/cubegym/internal/storage"
)

// ActionProfile counts which actions and faces an agent favored.
type ActionProfile struct {
	ActionCounts     map[string]int `json:"action_counts"`
	FaceCounts       map[string]int `json:"face_counts"`
	MostUsed         string         `json:"most_used,omitempty"`
	Clockwise        int            `json:"clockwise"`
	CounterClockwise int            `json:"counter_clockwise"`
}

// AnalyzeActions builds an action profile from step records. Counts are
// keyed by move notation and face letter. Undecodable actions are skipped.
func AnalyzeActions(steps []storage.StepRecord) *ActionProfile {
	profile := &ActionProfile{
		ActionCounts: make(map[string]int),
		FaceCounts:   make(map[string]int),
	}

	for _, s := range steps {
		move, err := cubegym.MoveForAction(s.Action)
		if err != nil {
			continue
		}

		profile.ActionCounts[move.Notation()]++
		profile.FaceCounts[move.Face.String()]++
		if move.Clockwise {
			profile.Clockwise++
		} else {
			profile.CounterClockwise++
		}
	}

	maxCount := 0
	for notation, count := range profile.ActionCounts {
		if count > maxCount {
			maxCount = count
			profile.MostUsed = notation
		}
	}

	return profile
}
