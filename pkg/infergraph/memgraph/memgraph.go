// Package memgraph is a small, dependency-free, JSON-decodable in-memory
// InferenceSet/InferenceJustifier implementation over string conclusions
// and axioms. It exists so the library is usable out of the box — the way
// the teacher library ships Term/Atom/Var so a caller never has to
// implement the core contracts from scratch just to try the engines — and
// so cmd/infergraph and the end-to-end scenario tests have one concrete
// graph to drive.
//
// memgraph.Graph also implements the optional infergraph.DynamicInferenceSet
// extension: mutating a graph after construction notifies registered
// listeners, though (per spec.md §6) no engine subscribes automatically —
// callers own invalidating any engine built over a mutated graph.
package memgraph

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gitrdm/infergraph/pkg/infergraph"
)

// Key wraps a string conclusion or axiom with a stable FNV-1a hash,
// satisfying infergraph.Key. Grounded on the teacher's fact_store.go
// position-indexed-by-string-term lookups: conclusions and axioms here are
// plain strings, matching how the teacher's Fact/FactIndex index terms by
// their String() form.
type Key string

// Hash computes a 64-bit FNV-1a hash of the key's string value.
func (k Key) Hash() uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(k); i++ {
		h ^= uint64(k[i])
		h *= 1099511628211
	}
	return h
}

// Inference is one hypergraph edge: a named rule deriving Head from Body.
type Inference struct {
	Head string   `json:"head"`
	Body []string `json:"body"`
	ID   string   `json:"name"`
}

// Conclusion returns the inference's head as a Key.
func (i Inference) Conclusion() Key { return Key(i.Head) }

// Premises returns the inference's body as Keys, order preserved.
func (i Inference) Premises() []Key {
	out := make([]Key, len(i.Body))
	for idx, p := range i.Body {
		out[idx] = Key(p)
	}
	return out
}

// Name returns the inference's diagnostic name.
func (i Inference) Name() string { return i.ID }

// document is the JSON wire shape Graph decodes from and encodes to:
// a flat list of inferences plus a justification table keyed by
// inference name.
type document struct {
	Inferences     []Inference         `json:"inferences"`
	Justifications map[string][]string `json:"justifications"`
}

// Graph is an in-memory inference set indexed by conclusion, along with
// the justification table for each named inference.
type Graph struct {
	mu             sync.RWMutex
	byConclusion   map[Key][]Inference
	justifications map[string]map[Key]struct{}

	listeners []infergraph.InferenceChangeListener[Key]
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		byConclusion:   make(map[Key][]Inference),
		justifications: make(map[string]map[Key]struct{}),
	}
}

// DecodeJSON parses a document of the shape:
//
//	{
//	  "inferences": [{"name": "I1", "head": "c", "body": ["a", "b"]}, ...],
//	  "justifications": {"I1": ["x"], "I2": ["y"]}
//	}
//
// into a new Graph. Inferences with no entry in "justifications" get an
// empty justification.
func DecodeJSON(data []byte) (*Graph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("memgraph: decode: %w", err)
	}
	g := New()
	for _, inf := range doc.Inferences {
		axioms := doc.Justifications[inf.ID]
		g.Add(inf, axioms...)
	}
	return g, nil
}

// Add inserts inf into the graph with the given justification axioms,
// notifying any listeners that inf's conclusion's inference list changed.
func (g *Graph) Add(inf Inference, axioms ...string) {
	g.mu.Lock()
	c := Key(inf.Head)
	g.byConclusion[c] = append(g.byConclusion[c], inf)
	set := make(map[Key]struct{}, len(axioms))
	for _, a := range axioms {
		set[Key(a)] = struct{}{}
	}
	g.justifications[inf.ID] = set
	listeners := append([]infergraph.InferenceChangeListener[Key]{}, g.listeners...)
	g.mu.Unlock()

	for _, l := range listeners {
		l.InferencesChanged(c)
	}
}

// InferencesOf implements infergraph.InferenceSet.
func (g *Graph) InferencesOf(c Key) []infergraph.Inference[Key] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	infs := g.byConclusion[c]
	out := make([]infergraph.Inference[Key], len(infs))
	for i, inf := range infs {
		out[i] = inf
	}
	return out
}

// JustificationOf implements infergraph.InferenceJustifier.
func (g *Graph) JustificationOf(inf infergraph.Inference[Key]) map[Key]struct{} {
	named, ok := inf.(Inference)
	if !ok {
		return map[Key]struct{}{}
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	src := g.justifications[named.ID]
	out := make(map[Key]struct{}, len(src))
	for a := range src {
		out[a] = struct{}{}
	}
	return out
}

// AddListener implements infergraph.DynamicInferenceSet.
func (g *Graph) AddListener(l infergraph.InferenceChangeListener[Key]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

// RemoveListener implements infergraph.DynamicInferenceSet.
func (g *Graph) RemoveListener(l infergraph.InferenceChangeListener[Key]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, existing := range g.listeners {
		if existing == l {
			g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
			return
		}
	}
}

// Dispose implements infergraph.DynamicInferenceSet, dropping all
// listeners. The graph itself remains usable.
func (g *Graph) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = nil
}
