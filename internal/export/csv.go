package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{
	"episode_id", "step", "action", "face", "clockwise", "notation",
	"reward", "misplaced", "solved", "state", "next_state",
}

// WriteCSV writes rows as CSV with a header record.
func WriteCSV(w io.Writer, rows []TransitionRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.EpisodeID,
			strconv.Itoa(int(r.Step)),
			strconv.Itoa(int(r.Action)),
			r.Face,
			strconv.FormatBool(r.Clockwise),
			r.Notation,
			strconv.FormatFloat(r.Reward, 'g', -1, 64),
			strconv.Itoa(int(r.Misplaced)),
			strconv.FormatBool(r.Solved),
			r.State,
			r.NextState,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
