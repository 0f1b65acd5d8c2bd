package main

import (
	"encoding/json"
	"os"
)

// pipelineState is the host binary's persisted record of a
// create/add-stage/execute session, since each subcommand is a separate
// process invocation. Its stage list is names into builtinStages, not
// arbitrary code.
type pipelineState struct {
	Mode         string   `json:"mode"`
	Optimization bool     `json:"optimization"`
	Stages       []string `json:"stages"`
}

const pipelineStatePath = "nexuslink-pipeline.json"

func loadPipelineState() (*pipelineState, error) {
	b, err := os.ReadFile(pipelineStatePath)
	if err != nil {
		return nil, err
	}
	var st pipelineState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, &parseError{path: pipelineStatePath, cause: err}
	}
	return &st, nil
}

func savePipelineState(st *pipelineState) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(pipelineStatePath, b, 0o644)
}
