package export

import (
	"encoding/json"
	"io"
)

// WriteJSON writes rows as indented JSON.
func WriteJSON(w io.Writer, rows []TransitionRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
