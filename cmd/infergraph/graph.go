package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gitrdm/infergraph/pkg/infergraph/memgraph"
)

// loadGraph reads and decodes the JSON graph document at path into a
// memgraph.Graph, the one concrete InferenceSet/InferenceJustifier the CLI
// drives (see pkg/infergraph/memgraph).
func loadGraph(path string) (*memgraph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("infergraph: read %s: %w", path, err)
	}
	g, err := memgraph.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("infergraph: %s: %w", path, err)
	}
	return g, nil
}

// splitNonEmpty splits a comma-separated flag value, trimming whitespace
// and dropping empty fields.
func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
