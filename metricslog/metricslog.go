// Package metricslog implements the optional, append-only metrics output
// spec §4.6/§4.7/§6 describes: one block per minimization or pipeline run,
// carrying component path, type tag, level, pre/post state counts, pre/post
// byte sizes, elapsed time, and the boolean-reduction flag.
//
// Persisted state is explicitly out of scope beyond this: the core never
// reads its own metrics back to make decisions. The format is TOML,
// following the teacher's own manifest/lock persistence
// (toml.go) onto the one ecosystem TOML library the pack vendors,
// github.com/pelletier/go-toml - repurposed here since the project-manifest
// use that library originally served is itself out of scope.
package metricslog

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Record is one run's metrics block.
type Record struct {
	ComponentPath    string  `toml:"component_path"`
	Type             string  `toml:"type"` // "automaton" or "pipeline"
	Level            string  `toml:"level"`
	OriginalCount    int     `toml:"original_count"`
	MinimizedCount   int     `toml:"minimized_count"`
	OriginalBytes    int64   `toml:"original_bytes"`
	MinimizedBytes   int64   `toml:"minimized_bytes"`
	ElapsedMS        float64 `toml:"elapsed_ms"`
	BooleanReduction bool    `toml:"boolean_reduction"`
}

type document struct {
	Run []Record `toml:"run"`
}

// Append marshals rec as one `[[run]]` TOML block and appends it to path,
// creating the file if it does not exist. Concatenating independently
// marshaled single-entry documents this way keeps the whole file one valid
// multi-entry TOML document without ever reading it back first.
func Append(path string, rec Record) error {
	b, err := toml.Marshal(document{Run: []Record{rec}})
	if err != nil {
		return errors.Wrap(err, "marshal metrics record")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open metrics log")
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return errors.Wrap(err, "write metrics record")
	}
	return nil
}

// ReadAll loads every recorded run from path, in file order.
func ReadAll(path string) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read metrics log")
	}
	var doc document
	if err := toml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshal metrics log")
	}
	return doc.Run, nil
}
