package main

import (
	"encoding/json"
	"os"

	"github.com/nexuslink/nexuslink/automaton"
)

// automatonDoc is the host binary's own on-disk shape for an automaton -
// spec §6 defines a persisted format for component metadata but not for
// automata, so this is a minimal, CLI-only JSON rendering (states in
// order, first one initial, plus a transition list) rather than anything
// the core engine itself depends on.
type automatonDoc struct {
	States []struct {
		ID    string `json:"id"`
		Final bool   `json:"final"`
	} `json:"states"`
	Transitions []struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Symbol string `json:"symbol"`
	} `json:"transitions"`
}

func loadAutomaton(path string) (*automaton.Automaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc automatonDoc
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, &parseError{path: path, cause: err}
	}

	a := automaton.New()
	for _, s := range doc.States {
		if err := a.AddState(s.ID, s.Final); err != nil {
			return nil, err
		}
	}
	for _, t := range doc.Transitions {
		if err := a.AddTransition(t.From, t.To, t.Symbol); err != nil {
			return nil, err
		}
	}
	return a, nil
}

type parseError struct {
	path  string
	cause error
}

func (e *parseError) Error() string { return "parse " + e.path + ": " + e.cause.Error() }
func (e *parseError) Unwrap() error { return e.cause }
