package main

import (
	"bytes"
	"strings"

	"github.com/nexuslink/nexuslink/pipeline"
)

// builtinStages is the small, named set of stage functions the CLI host
// can reference by name when a pipeline is assembled one add-stage call
// at a time across separate process invocations; stage functions
// themselves are Go values and have no on-disk form, so only this fixed
// registry - not arbitrary user code - is reachable from the command
// line. Named after the spec §8 scenario 4 worked example (upper,
// reverse).
var builtinStages = map[string]pipeline.StageFunc{
	"upper": func(in []byte, _ interface{}) ([]byte, error) {
		return bytes.ToUpper(in), nil
	},
	"lower": func(in []byte, _ interface{}) ([]byte, error) {
		return bytes.ToLower(in), nil
	},
	"reverse": func(in []byte, _ interface{}) ([]byte, error) {
		out := make([]byte, len(in))
		for i, b := range in {
			out[len(in)-1-i] = b
		}
		return out, nil
	},
	"trim": func(in []byte, _ interface{}) ([]byte, error) {
		return []byte(strings.TrimSpace(string(in))), nil
	},
}
