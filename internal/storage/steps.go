package storage

import (
	"database/sql"
	"fmt"
)

// StepRecord represents one step of an episode in the database. State holds
// the compact 54-letter encoding of the observation after the move.
type StepRecord struct {
	StepID     int64
	EpisodeID  string
	StepIndex  int
	Action     int
	Notation   string
	Reward     float64
	Misplaced  int
	Terminated bool
	Truncated  bool
	State      string
}

// StepRepository provides CRUD operations for steps.
type StepRepository struct {
	db *DB
}

// NewStepRepository creates a new step repository.
func NewStepRepository(db *DB) *StepRepository {
	return &StepRepository{db: db}
}

// Create inserts a single step and returns its ID.
func (r *StepRepository) Create(step StepRecord) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO steps (episode_id, step_index, action, notation, reward, misplaced, terminated, truncated, state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, step.EpisodeID, step.StepIndex, step.Action, step.Notation, step.Reward,
		step.Misplaced, step.Terminated, step.Truncated, step.State)
	if err != nil {
		return 0, fmt.Errorf("failed to create step: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get step ID: %w", err)
	}

	return id, nil
}

// CreateBatch inserts an episode's steps in a single transaction.
func (r *StepRepository) CreateBatch(steps []StepRecord) error {
	if len(steps) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO steps (episode_id, step_index, action, notation, reward, misplaced, terminated, truncated, state)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare step insert: %w", err)
		}
		defer stmt.Close()

		for _, step := range steps {
			_, err := stmt.Exec(
				step.EpisodeID, step.StepIndex, step.Action, step.Notation,
				step.Reward, step.Misplaced, step.Terminated, step.Truncated, step.State,
			)
			if err != nil {
				return fmt.Errorf("failed to create step %d: %w", step.StepIndex, err)
			}
		}
		return nil
	})
}

// GetByEpisode retrieves all steps for an episode in order.
func (r *StepRepository) GetByEpisode(episodeID string) ([]StepRecord, error) {
	rows, err := r.db.Query(`
		SELECT step_id, episode_id, step_index, action, notation, reward, misplaced, terminated, truncated, state
		FROM steps
		WHERE episode_id = ?
		ORDER BY step_index
	`, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get steps: %w", err)
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var s StepRecord
		err := rows.Scan(
			&s.StepID, &s.EpisodeID, &s.StepIndex, &s.Action, &s.Notation,
			&s.Reward, &s.Misplaced, &s.Terminated, &s.Truncated, &s.State,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, s)
	}

	return steps, rows.Err()
}

// Count returns the number of stored steps for an episode.
func (r *StepRepository) Count(episodeID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM steps WHERE episode_id = ?", episodeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count steps: %w", err)
	}
	return count, nil
}
