package analysis

import (
	"strings"
	"testing"
)

func TestMineNGramsFindsLoops(t *testing.T) {
	// R U repeated three times.
	steps := stepsFor("ep-1", 8, 0, 8, 0, 8, 0)

	report := MineNGrams(steps, 2, 3, 5)

	pairs, ok := report.TopNGrams[2]
	if !ok || len(pairs) == 0 {
		t.Fatal("expected repeated pairs to be mined")
	}

	top := pairs[0]
	if top.Count != 3 {
		t.Errorf("expected the top pair to repeat 3 times, got %d", top.Count)
	}
	if got := strings.Join(top.Sequence, " "); got != "R U" {
		t.Errorf("expected the top pair to be R U, got %q", got)
	}
	if len(top.Occurrences) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(top.Occurrences))
	}
	if top.Occurrences[0].StartIndex != 0 || top.Occurrences[0].EpisodeID != "ep-1" {
		t.Errorf("first occurrence wrong: %+v", top.Occurrences[0])
	}

	triples := report.TopNGrams[3]
	if len(triples) != 2 {
		t.Fatalf("expected two repeated triples, got %d", len(triples))
	}
	for _, ng := range triples {
		if ng.Count != 2 {
			t.Errorf("expected each triple to repeat twice, got %d for %v", ng.Count, ng.Sequence)
		}
	}
}

func TestMineNGramsIgnoresOneOffs(t *testing.T) {
	steps := stepsFor("ep-1", 0, 2, 4, 6, 8, 10)

	report := MineNGrams(steps, 2, 4, 5)

	if len(report.TopNGrams) != 0 {
		t.Errorf("sequences that never repeat should not be reported, got %v", report.TopNGrams)
	}
}

func TestMineNGramsShortInput(t *testing.T) {
	steps := stepsFor("ep-1", 8)

	report := MineNGrams(steps, 2, 4, 5)

	if len(report.TopNGrams) != 0 {
		t.Errorf("expected an empty report for input shorter than minN, got %v", report.TopNGrams)
	}
}

func TestMineNGramsRespectsTopK(t *testing.T) {
	// Three distinct repeating pairs: R U, F D, L B.
	steps := stepsFor("ep-1",
		8, 0, 8, 0, 8, 0, 8, 0,
		4, 2, 4, 2, 4, 2,
		10, 6, 10, 6,
	)

	report := MineNGrams(steps, 2, 2, 2)

	pairs := report.TopNGrams[2]
	if len(pairs) != 2 {
		t.Fatalf("expected topK to cap pairs at 2, got %d", len(pairs))
	}
	if pairs[0].Count < pairs[1].Count {
		t.Error("pairs should be sorted by count, most frequent first")
	}
	if got := strings.Join(pairs[0].Sequence, " "); got != "R U" {
		t.Errorf("expected R U on top, got %q", got)
	}
}

func TestMineNGramsAcrossEpisodes(t *testing.T) {
	first := MineNGrams(stepsFor("ep-1", 8, 0, 8, 0, 8, 0), 2, 2, 5)
	second := MineNGrams(stepsFor("ep-2", 8, 0, 8, 0), 2, 2, 5)

	merged := MineNGramsAcrossEpisodes([]*NGramReport{first, second}, 2, 2, 5)

	pairs := merged.TopNGrams[2]
	if len(pairs) == 0 {
		t.Fatal("expected merged pairs")
	}
	if pairs[0].Count != 5 {
		t.Errorf("expected combined count 5 for R U, got %d", pairs[0].Count)
	}

	episodes := map[string]bool{}
	for _, occ := range pairs[0].Occurrences {
		episodes[occ.EpisodeID] = true
	}
	if !episodes["ep-1"] || !episodes["ep-2"] {
		t.Errorf("occurrences should span both episodes, got %v", episodes)
	}
}
