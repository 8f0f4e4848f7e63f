package analysis

import (
	"bytes"
	"sort"

	"github.com/cubelab/cubegym"

	"github.com/cubelab/cubegym/internal/storage"
)

// NGram is a repeated action sequence. Agents that loop show up here as
// short high-count n-grams.
type NGram struct {
	N           int               `json:"n"`
	Sequence    []string          `json:"sequence"`
	Tokens      []uint8           `json:"-"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// NGramOccurrence records where an n-gram was found.
type NGramOccurrence struct {
	EpisodeID  string `json:"episode_id,omitempty"`
	StartIndex int    `json:"start_index"`
}

// NGramReport holds the top n-grams keyed by sequence length.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"`
}

// rollingHash is a Rabin-Karp rolling hash over action tokens.
type rollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64
	window []uint8
	n      int
}

func newRollingHash(n int) *rollingHash {
	rh := &rollingHash{
		base:   31,
		n:      n,
		window: make([]uint8, 0, n),
	}
	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

func (rh *rollingHash) add(token uint8) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
	}
}

func (rh *rollingHash) roll(token uint8) {
	if len(rh.window) < rh.n {
		rh.add(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)

	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

func (rh *rollingHash) ready() bool {
	return len(rh.window) == rh.n
}

func (rh *rollingHash) snapshot() []uint8 {
	out := make([]uint8, len(rh.window))
	copy(out, rh.window)
	return out
}

type ngramEntry struct {
	tokens      []uint8
	count       int
	occurrences []NGramOccurrence
}

// maxOccurrences caps how many sample locations each n-gram keeps.
const maxOccurrences = 10

// MineNGrams finds the top-K most frequent action n-grams for each n in
// [minN, maxN] within a single episode's steps.
func MineNGrams(steps []storage.StepRecord, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	if len(steps) < minN {
		return report
	}

	tokens := make([]uint8, len(steps))
	for i, s := range steps {
		tokens[i] = uint8(s.Action)
	}

	for n := minN; n <= maxN && n <= len(steps); n++ {
		ngrams := mineNGramsForN(tokens, steps, n, topK)
		if len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}

	return report
}

func mineNGramsForN(tokens []uint8, steps []storage.StepRecord, n, topK int) []NGram {
	if len(tokens) < n {
		return nil
	}

	counts := make(map[uint64]*ngramEntry)
	rh := newRollingHash(n)

	for i := 0; i < n-1 && i < len(tokens); i++ {
		rh.add(tokens[i])
	}

	for i := n - 1; i < len(tokens); i++ {
		rh.roll(tokens[i])
		if !rh.ready() {
			continue
		}

		hash := rh.hash
		start := i - n + 1
		occ := NGramOccurrence{
			EpisodeID:  steps[start].EpisodeID,
			StartIndex: steps[start].StepIndex,
		}

		if entry, exists := counts[hash]; exists {
			// Guard against hash collisions before counting.
			if bytes.Equal(entry.tokens, rh.window) {
				entry.count++
				if len(entry.occurrences) < maxOccurrences {
					entry.occurrences = append(entry.occurrences, occ)
				}
			}
		} else {
			counts[hash] = &ngramEntry{
				tokens:      rh.snapshot(),
				count:       1,
				occurrences: []NGramOccurrence{occ},
			}
		}
	}

	// Only sequences that repeat are interesting.
	entries := make([]*ngramEntry, 0, len(counts))
	for _, entry := range counts {
		if entry.count >= 2 {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	if len(entries) > topK {
		entries = entries[:topK]
	}

	result := make([]NGram, len(entries))
	for i, entry := range entries {
		result[i] = NGram{
			N:           n,
			Sequence:    notations(entry.tokens),
			Tokens:      entry.tokens,
			Count:       entry.count,
			Occurrences: entry.occurrences,
		}
	}

	return result
}

// MineNGramsAcrossEpisodes merges per-episode reports and keeps the top-K
// n-grams per length by combined count.
func MineNGramsAcrossEpisodes(reports []*NGramReport, minN, maxN, topK int) *NGramReport {
	merged := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	for n := minN; n <= maxN; n++ {
		aggregated := make(map[string]*NGram)

		for _, report := range reports {
			for _, ng := range report.TopNGrams[n] {
				key := string(ng.Tokens)
				if existing, exists := aggregated[key]; exists {
					existing.Count += ng.Count
					for _, occ := range ng.Occurrences {
						if len(existing.Occurrences) < maxOccurrences {
							existing.Occurrences = append(existing.Occurrences, occ)
						}
					}
				} else {
					clone := ng
					clone.Occurrences = append([]NGramOccurrence(nil), ng.Occurrences...)
					aggregated[key] = &clone
				}
			}
		}

		ngrams := make([]NGram, 0, len(aggregated))
		for _, ng := range aggregated {
			ngrams = append(ngrams, *ng)
		}

		sort.Slice(ngrams, func(i, j int) bool {
			return ngrams[i].Count > ngrams[j].Count
		})

		if len(ngrams) > topK {
			ngrams = ngrams[:topK]
		}
		if len(ngrams) > 0 {
			merged.TopNGrams[n] = ngrams
		}
	}

	return merged
}

func notations(tokens []uint8) []string {
	sequence := make([]string, len(tokens))
	for i, token := range tokens {
		move, err := cubegym.MoveForAction(int(token))
		if err != nil {
			sequence[i] = "?"
			continue
		}
		sequence[i] = move.Notation()
	}
	return sequence
}
