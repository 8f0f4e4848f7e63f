package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/cubelab/cubegym"
	"github.com/cubelab/cubegym/internal/storage"
)

// recordEpisode drives a short episode and returns it in storage form,
// the way the run command records it.
func recordEpisode(t *testing.T, actions []int) (*storage.Episode, []storage.StepRecord, string) {
	t.Helper()

	env := cubegym.NewEnv(cubegym.WithSeed(7))
	state := env.Reset(5)
	initial := cubegym.EncodeState(state)

	ep := &storage.Episode{
		EpisodeID: "ep-1",
		Scramble:  cubegym.FormatMoves(env.ScrambleMoves()),
	}

	var steps []storage.StepRecord
	for i, a := range actions {
		res, err := env.Step(a)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		move, err := cubegym.MoveForAction(a)
		if err != nil {
			t.Fatalf("action %d should decode: %v", a, err)
		}
		steps = append(steps, storage.StepRecord{
			EpisodeID:  ep.EpisodeID,
			StepIndex:  i,
			Action:     a,
			Notation:   move.Notation(),
			Reward:     res.Reward,
			Misplaced:  env.Cube().Misplaced(),
			Terminated: res.Terminated,
			Truncated:  res.Truncated,
			State:      cubegym.EncodeState(res.State),
		})
	}

	return ep, steps, initial
}

func TestRowsChainStates(t *testing.T) {
	ep, steps, initial := recordEpisode(t, []int{8, 0, 9, 1})

	rows, err := Rows(ep, steps)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != len(steps) {
		t.Fatalf("expected %d rows, got %d", len(steps), len(rows))
	}

	if rows[0].State != initial {
		t.Errorf("row 0 state should be the scrambled start, got %q", rows[0].State)
	}
	for i, r := range rows {
		if r.NextState != steps[i].State {
			t.Errorf("row %d next_state should match the stored step state", i)
		}
		if i > 0 && r.State != rows[i-1].NextState {
			t.Errorf("row %d state should chain from the previous next_state", i)
		}
	}
}

func TestRowsDecodeActions(t *testing.T) {
	ep, steps, _ := recordEpisode(t, []int{8, 9})

	rows, err := Rows(ep, steps)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	if rows[0].Face != "R" || !rows[0].Clockwise || rows[0].Notation != "R" {
		t.Errorf("action 8 should export as a clockwise R, got %+v", rows[0])
	}
	if rows[1].Face != "R" || rows[1].Clockwise || rows[1].Notation != "R'" {
		t.Errorf("action 9 should export as a counter-clockwise R, got %+v", rows[1])
	}
	if rows[0].Step != 0 || rows[1].Step != 1 {
		t.Errorf("step indices should be preserved, got %d and %d", rows[0].Step, rows[1].Step)
	}
}

func TestRowsMarkSolvedSteps(t *testing.T) {
	// R on a solved cube, then R' solves it again.
	env := cubegym.NewEnv()
	env.Reset(0)

	ep := &storage.Episode{EpisodeID: "ep-solve"}
	var steps []storage.StepRecord
	for i, a := range []int{8, 9} {
		res, err := env.Step(a)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		move, _ := cubegym.MoveForAction(a)
		steps = append(steps, storage.StepRecord{
			EpisodeID:  ep.EpisodeID,
			StepIndex:  i,
			Action:     a,
			Notation:   move.Notation(),
			Reward:     res.Reward,
			Terminated: res.Terminated,
			Truncated:  res.Truncated,
			State:      cubegym.EncodeState(res.State),
		})
	}

	rows, err := Rows(ep, steps)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	if rows[0].Solved {
		t.Error("first step should not be marked solved")
	}
	if !rows[1].Solved {
		t.Error("solving step should be marked solved")
	}
	if rows[0].State != steps[1].State {
		t.Error("empty scramble should start from the solved state")
	}
}

func TestRowsRejectsBadScramble(t *testing.T) {
	ep := &storage.Episode{EpisodeID: "ep-bad", Scramble: "R X"}

	rows, err := Rows(ep, nil)
	if err == nil {
		t.Fatal("expected an error for an unparseable scramble")
	}
	if rows != nil {
		t.Errorf("expected no rows on error, got %d", len(rows))
	}
}

func TestRowsRejectsBadAction(t *testing.T) {
	ep := &storage.Episode{EpisodeID: "ep-bad"}
	steps := []storage.StepRecord{{EpisodeID: "ep-bad", StepIndex: 0, Action: 99}}

	_, err := Rows(ep, steps)
	if err == nil {
		t.Fatal("expected an error for an out-of-range action")
	}
	if !errors.Is(err, cubegym.ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	ep, steps, _ := recordEpisode(t, []int{8, 0, 9})
	rows, err := Rows(ep, steps)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output should parse as CSV: %v", err)
	}
	if len(records) != len(rows)+1 {
		t.Fatalf("expected header plus %d records, got %d", len(rows), len(records))
	}

	for i, col := range csvHeader {
		if records[0][i] != col {
			t.Errorf("header column %d should be %q, got %q", i, col, records[0][i])
		}
	}

	first := records[1]
	if first[0] != rows[0].EpisodeID {
		t.Errorf("expected episode id %q, got %q", rows[0].EpisodeID, first[0])
	}
	if first[5] != rows[0].Notation {
		t.Errorf("expected notation %q, got %q", rows[0].Notation, first[5])
	}
	if first[6] != strconv.FormatFloat(rows[0].Reward, 'g', -1, 64) {
		t.Errorf("expected reward %v, got %q", rows[0].Reward, first[6])
	}
	if first[9] != rows[0].State || first[10] != rows[0].NextState {
		t.Error("state columns should carry the facelet encodings")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	ep, steps, _ := recordEpisode(t, []int{8, 0})
	rows, err := Rows(ep, steps)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rows); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var got []TransitionRow
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output should parse as JSON: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows back, got %d", len(rows), len(got))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("row %d changed across the round trip: %+v != %+v", i, got[i], rows[i])
		}
	}
}

func TestWriteParquetRoundTrip(t *testing.T) {
	ep, steps, _ := recordEpisode(t, []int{8, 0, 9, 1})
	rows, err := Rows(ep, steps)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "steps.parquet")
	if err := WriteParquet(path, rows); err != nil {
		t.Fatalf("WriteParquet failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open parquet output: %v", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[TransitionRow](f)
	defer reader.Close()

	var got []TransitionRow
	buf := make([]TransitionRow, 2)
	for {
		n, err := reader.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read parquet rows: %v", err)
		}
	}

	if len(got) != len(rows) {
		t.Fatalf("expected %d rows back, got %d", len(rows), len(got))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("row %d changed across the round trip: %+v != %+v", i, got[i], rows[i])
		}
	}
}
