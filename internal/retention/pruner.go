// Package retention prunes stored episodes by age and by count.
package retention

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cubelab/cubegym/internal/storage"
)

// Pruner removes episodes that fall outside the retention limits. A limit
// set to zero is disabled.
type Pruner struct {
	episodes    *storage.EpisodeRepository
	maxAgeDays  int
	maxEpisodes int
	log         *logrus.Logger
}

// NewPruner creates a pruner over the episode store.
func NewPruner(episodes *storage.EpisodeRepository, maxAgeDays, maxEpisodes int, log *logrus.Logger) *Pruner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pruner{
		episodes:    episodes,
		maxAgeDays:  maxAgeDays,
		maxEpisodes: maxEpisodes,
		log:         log,
	}
}

// Prune applies the age limit, then the count limit, and returns how many
// episodes were removed. Steps go with their episodes via the cascade.
func (p *Pruner) Prune() (int64, error) {
	var deleted int64

	if p.maxAgeDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -p.maxAgeDays)
		n, err := p.episodes.DeleteOlderThan(cutoff)
		if err != nil {
			return deleted, fmt.Errorf("failed to prune by age: %w", err)
		}
		deleted += n
		if n > 0 {
			p.log.WithFields(logrus.Fields{
				"deleted": n,
				"cutoff":  cutoff.Format(time.RFC3339),
			}).Info("pruned episodes by age")
		}
	}

	if p.maxEpisodes > 0 {
		n, err := p.episodes.DeleteAllButNewest(p.maxEpisodes)
		if err != nil {
			return deleted, fmt.Errorf("failed to prune by count: %w", err)
		}
		deleted += n
		if n > 0 {
			p.log.WithFields(logrus.Fields{
				"deleted": n,
				"keep":    p.maxEpisodes,
			}).Info("pruned episodes by count")
		}
	}

	return deleted, nil
}
