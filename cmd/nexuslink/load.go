package main

import (
	"github.com/nexuslink/nexuslink/component"
)

// loadComponents bulk-loads every *.component.json document under dir
// into a component.ByID, the shape nexus.New and depgraph.Build expect.
func loadComponents(dir string) (component.ByID, error) {
	docs, err := component.LoadAll(dir, ".component.json", component.JSONCodec{})
	if err != nil {
		return nil, err
	}
	available := make(component.ByID, len(docs))
	for _, c := range docs {
		available[c.ID] = c
	}
	return available, nil
}
