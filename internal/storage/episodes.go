package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Episode outcomes as stored in the outcome column.
const (
	OutcomeRunning   = "running"
	OutcomeSolved    = "solved"
	OutcomeTruncated = "truncated"
	OutcomeAborted   = "aborted"
)

// timeFormat is RFC 3339 with a fixed-width 9-digit fraction. Episodes can
// start within the same second, so started_at needs sub-second precision,
// and the fixed width keeps string comparison in ORDER BY chronological.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Episode represents one recorded episode.
type Episode struct {
	EpisodeID   string
	StartedAt   time.Time
	EndedAt     *time.Time
	Policy      string
	Seed        *int64
	ScrambleLen int
	Scramble    string
	StepBudget  int
	Steps       int
	Outcome     string
	TotalReward float64
}

// EpisodeRepository provides CRUD operations for episodes.
type EpisodeRepository struct {
	db *DB
}

// NewEpisodeRepository creates a new episode repository.
func NewEpisodeRepository(db *DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// Create inserts a new episode in the running state and returns its ID.
func (r *EpisodeRepository) Create(policy string, seed *int64, scrambleLen int, scramble string, stepBudget int) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO episodes (episode_id, started_at, policy, seed, scramble_len, scramble_text, step_budget)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, startedAt.Format(timeFormat), policy, seed, scrambleLen, scramble, stepBudget)

	if err != nil {
		return "", fmt.Errorf("failed to create episode: %w", err)
	}

	return id, nil
}

// Finish marks an episode as ended with its final outcome and totals.
func (r *EpisodeRepository) Finish(episodeID, outcome string, steps int, totalReward float64) error {
	endedAt := time.Now().UTC()

	res, err := r.db.Exec(`
		UPDATE episodes
		SET ended_at = ?, outcome = ?, steps = ?, total_reward = ?
		WHERE episode_id = ?
	`, endedAt.Format(timeFormat), outcome, steps, totalReward, episodeID)
	if err != nil {
		return fmt.Errorf("failed to finish episode: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check episode update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("episode %s not found", episodeID)
	}

	return nil
}

// Get retrieves an episode by ID. Returns nil when it does not exist.
func (r *EpisodeRepository) Get(episodeID string) (*Episode, error) {
	row := r.db.QueryRow(`
		SELECT episode_id, started_at, ended_at, policy, seed, scramble_len, scramble_text, step_budget, steps, outcome, total_reward
		FROM episodes
		WHERE episode_id = ?
	`, episodeID)

	e, err := scanEpisode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}
	return e, nil
}

// GetLast retrieves the most recently started episode.
func (r *EpisodeRepository) GetLast() (*Episode, error) {
	var episodeID string
	err := r.db.QueryRow(`
		SELECT episode_id FROM episodes
		ORDER BY started_at DESC, episode_id DESC
		LIMIT 1
	`).Scan(&episodeID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last episode: %w", err)
	}

	return r.Get(episodeID)
}

// List retrieves recent episodes, newest first.
func (r *EpisodeRepository) List(limit int) ([]Episode, error) {
	rows, err := r.db.Query(`
		SELECT episode_id, started_at, ended_at, policy, seed, scramble_len, scramble_text, step_budget, steps, outcome, total_reward
		FROM episodes
		ORDER BY started_at DESC, episode_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		episodes = append(episodes, *e)
	}

	return episodes, rows.Err()
}

// Count returns the total number of stored episodes.
func (r *EpisodeRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM episodes").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count episodes: %w", err)
	}
	return count, nil
}

// Delete removes an episode and, via the cascade, its steps.
func (r *EpisodeRepository) Delete(episodeID string) error {
	_, err := r.db.Exec("DELETE FROM episodes WHERE episode_id = ?", episodeID)
	if err != nil {
		return fmt.Errorf("failed to delete episode: %w", err)
	}
	return nil
}

// DeleteOlderThan removes episodes started before cutoff and returns how
// many were removed.
func (r *EpisodeRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`
		DELETE FROM episodes WHERE started_at < ?
	`, cutoff.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old episodes: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted episodes: %w", err)
	}
	return n, nil
}

// DeleteAllButNewest keeps the keep most recent episodes and removes the
// rest, returning how many were removed.
func (r *EpisodeRepository) DeleteAllButNewest(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := r.db.Exec(`
		DELETE FROM episodes
		WHERE episode_id NOT IN (
			SELECT episode_id FROM episodes
			ORDER BY started_at DESC, episode_id DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim episodes: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count trimmed episodes: %w", err)
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row scanner) (*Episode, error) {
	var e Episode
	var startedAtStr string
	var endedAtStr sql.NullString

	err := row.Scan(
		&e.EpisodeID, &startedAtStr, &endedAtStr,
		&e.Policy, &e.Seed, &e.ScrambleLen, &e.Scramble,
		&e.StepBudget, &e.Steps, &e.Outcome, &e.TotalReward,
	)
	if err != nil {
		return nil, err
	}

	e.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAtStr)
	if endedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339Nano, endedAtStr.String)
		e.EndedAt = &t
	}

	return &e, nil
}
