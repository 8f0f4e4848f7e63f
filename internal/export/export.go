// Package export flattens recorded episodes into transition rows for
// offline training pipelines.
package export

import (
	"fmt"

	"github.com/cubelab/cubegym"

	"github.com/cubelab/cubegym/internal/storage"
)

// TransitionRow is a single (state, action, reward, next state) sample.
//
// State and NextState use the 54-letter facelet encoding, so trainers can
// featurize however they like without touching the engine.
type TransitionRow struct {
	EpisodeID string  `parquet:"episode_id,dict" json:"episode_id"`
	Step      int32   `parquet:"step" json:"step"`
	Action    int32   `parquet:"action" json:"action"`
	Face      string  `parquet:"face,dict" json:"face"`
	Clockwise bool    `parquet:"clockwise" json:"clockwise"`
	Notation  string  `parquet:"notation,dict" json:"notation"`
	Reward    float64 `parquet:"reward" json:"reward"`
	Misplaced int32   `parquet:"misplaced" json:"misplaced"`
	Solved    bool    `parquet:"solved" json:"solved"`
	State     string  `parquet:"state" json:"state"`
	NextState string  `parquet:"next_state" json:"next_state"`
}

// Rows builds transition rows from an episode and its ordered steps.
//
// Stored steps carry the state after each move, so the state before step 0
// is reconstructed by replaying the episode's scramble on a solved cube.
func Rows(ep *storage.Episode, steps []storage.StepRecord) ([]TransitionRow, error) {
	cube := cubegym.New()
	if ep.Scramble != "" {
		moves, err := cubegym.ParseMoves(ep.Scramble)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scramble %q: %w", ep.Scramble, err)
		}
		if err := cube.ApplyMoves(moves); err != nil {
			return nil, fmt.Errorf("failed to replay scramble: %w", err)
		}
	}
	prev := cubegym.EncodeState(cube.State())

	rows := make([]TransitionRow, 0, len(steps))
	for _, s := range steps {
		move, err := cubegym.MoveForAction(s.Action)
		if err != nil {
			return nil, fmt.Errorf("step %d of episode %s: %w", s.StepIndex, s.EpisodeID, err)
		}

		rows = append(rows, TransitionRow{
			EpisodeID: s.EpisodeID,
			Step:      int32(s.StepIndex),
			Action:    int32(s.Action),
			Face:      move.Face.String(),
			Clockwise: move.Clockwise,
			Notation:  s.Notation,
			Reward:    s.Reward,
			Misplaced: int32(s.Misplaced),
			Solved:    s.Terminated,
			State:     prev,
			NextState: s.State,
		})
		prev = s.State
	}

	return rows, nil
}
