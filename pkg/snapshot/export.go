package snapshot

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/behrlich/goalttt-solver/pkg/board"
	"github.com/behrlich/goalttt-solver/pkg/gametree"
	"github.com/behrlich/goalttt-solver/pkg/meta"
	"github.com/behrlich/goalttt-solver/pkg/strategy"
)

// jsonEntry is a JSON-friendly representation of a single InfoState row:
// Go's encoding/json can't use a struct as a map key, so each row is
// flattened into an explicit record, mirroring the teacher's
// SerializableStrategy/SerializableProfile list-of-records shape.
type jsonEntry struct {
	Board   int       `json:"board"`
	Goal    string    `json:"goal"`
	Actions []float64 `json:"actions"`
}

type jsonStrategy struct {
	Version string      `json:"version"`
	Entries []jsonEntry `json:"entries"`
}

func goalFromString(s string) (board.Outcome, error) {
	switch s {
	case "Win":
		return board.Win, nil
	case "Lose":
		return board.Lose, nil
	case "Tie":
		return board.Tie, nil
	default:
		return 0, errors.Errorf("snapshot: unknown goal %q", s)
	}
}

// ExportJSON serializes sigma to the human-facing JSON export format.
func ExportJSON(sigma strategy.Strategy) ([]byte, error) {
	out := jsonStrategy{
		Version: "1.0",
		Entries: make([]jsonEntry, 0, len(sigma)),
	}
	for is, row := range sigma {
		out.Entries = append(out.Entries, jsonEntry{
			Board:   int(is.Board),
			Goal:    is.Goal.String(),
			Actions: row,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// ImportJSON deserializes a strategy previously written by ExportJSON.
func ImportJSON(data []byte) (strategy.Strategy, error) {
	var in jsonStrategy
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(err, "snapshot: parsing JSON strategy")
	}

	sigma := make(strategy.Strategy, len(in.Entries))
	for _, e := range in.Entries {
		goal, err := goalFromString(e.Goal)
		if err != nil {
			return nil, err
		}
		is := meta.InfoState{Board: gametree.ID(e.Board), Goal: goal}
		sigma[is] = e.Actions
	}
	return sigma, nil
}

// SaveJSON writes sigma's JSON export to path.
func SaveJSON(path string, sigma strategy.Strategy) error {
	data, err := ExportJSON(sigma)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "snapshot: writing JSON export")
}

// LoadJSON reads a strategy previously written by SaveJSON.
func LoadJSON(path string) (strategy.Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot: reading JSON export %s", path)
	}
	return ImportJSON(data)
}
