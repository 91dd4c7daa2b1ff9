// Package hitting implements the minimal-hitting-sets combinator from
// spec.md §1: given a family of finite sets, enumerate every minimal
// transversal (a set intersecting every member of the family, none of
// whose proper subsets does) by reduction to minimal justifications over a
// synthetic inference graph.
//
// The reduction builds, per family member S_i, one intermediate "hit"
// conclusion with one leaf inference per element e ∈ S_i (no premises,
// justification {e}) — so hit_i is derivable by picking any single element
// of S_i. A single top-level inference concludes the sentinel goal from
// the conjunction hit_0, ..., hit_n-1 with no justification of its own.
// Deriving the goal therefore means picking one element from every S_i; the
// justification of that derivation is the union of the chosen elements, and
// the Resolution Engine's minimal justifications of the goal are exactly
// the family's minimal hitting sets (this is the standard hitting-set ↔
// minimal-justification duality, dual to P8's axiom-pinpointing
// correspondence).
package hitting

import (
	"fmt"

	"github.com/gitrdm/infergraph/pkg/infergraph"
	"github.com/gitrdm/infergraph/pkg/infergraph/resolve"
)

// node is the synthetic conclusion type of the reduction graph: either the
// single sentinel goal or one of the per-member "hit" conclusions. It is a
// distinct variant (a struct tag, not a runtime-distinguished value of the
// element type E) per spec.md §9 Design Notes on encoding sentinels.
type node struct {
	isGoal bool
	member int
}

// Hash satisfies infergraph.Key with a simple FNV-1a-style mix of the two
// discriminating fields; node values are few (n+1 per call), so collision
// quality beyond "stable and well-distributed enough" is not a concern.
func (n node) Hash() uint64 {
	h := uint64(1469598103934665603)
	if n.isGoal {
		h ^= 1
	}
	h *= 1099511628211
	h ^= uint64(n.member)
	h *= 1099511628211
	return h
}

var goalNode = node{isGoal: true}

func memberNode(i int) node { return node{member: i} }

// leafInference derives hit_i from no premises, justified by a single
// chosen element of S_i.
type leafInference[E infergraph.Key] struct {
	member int
	name   string
	just   map[E]struct{}
}

func (l *leafInference[E]) Conclusion() node   { return memberNode(l.member) }
func (l *leafInference[E]) Premises() []node   { return nil }
func (l *leafInference[E]) Name() string       { return l.name }

// combineInference derives the sentinel goal from every hit_i, with an
// empty justification of its own — the justification of a full derivation
// comes entirely from which leaf was chosen under each hit_i.
type combineInference struct {
	premises []node
}

func (c *combineInference) Conclusion() node { return goalNode }
func (c *combineInference) Premises() []node  { return c.premises }
func (c *combineInference) Name() string      { return "combine" }

// reductionGraph is the synthetic InferenceSet + InferenceJustifier pair
// driving a resolve.Engine[node, E] query for goalNode.
type reductionGraph[E infergraph.Key] struct {
	combine *combineInference
	leaves  [][]infergraph.Inference[node]
}

func (g *reductionGraph[E]) InferencesOf(c node) []infergraph.Inference[node] {
	if c.isGoal {
		return []infergraph.Inference[node]{g.combine}
	}
	if c.member < len(g.leaves) {
		return g.leaves[c.member]
	}
	return nil
}

func (g *reductionGraph[E]) JustificationOf(inf infergraph.Inference[node]) map[E]struct{} {
	leaf, ok := inf.(*leafInference[E])
	if !ok {
		return map[E]struct{}{}
	}
	return leaf.just
}

// MinimalHittingSets computes every minimal transversal of family: a set
// intersecting every member of family such that no proper subset of it
// does. Each member is deduplicated into a set before the reduction is
// built. A family containing an empty member set has no hitting set at
// all (nothing can intersect an empty set), which is reported via
// ErrEmptyFamilyMember rather than silently returning zero results.
func MinimalHittingSets[E infergraph.Key](family [][]E) ([]map[E]struct{}, error) {
	for _, member := range family {
		if len(member) == 0 {
			return nil, ErrEmptyFamilyMember
		}
	}

	graph := &reductionGraph[E]{
		combine: &combineInference{premises: make([]node, len(family))},
		leaves:  make([][]infergraph.Inference[node], len(family)),
	}
	for idx, member := range family {
		graph.combine.premises[idx] = memberNode(idx)

		seen := make(map[E]struct{}, len(member))
		leaves := make([]infergraph.Inference[node], 0, len(member))
		for _, e := range member {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			leaves = append(leaves, &leafInference[E]{
				member: idx,
				name:   fmt.Sprintf("hit-%d", idx),
				just:   map[E]struct{}{e: {}},
			})
		}
		graph.leaves[idx] = leaves
	}

	eng, err := resolve.NewEngine[node, E](graph, graph, nil)
	if err != nil {
		return nil, err
	}

	var out []map[E]struct{}
	listener := infergraph.ListenerFunc[E](func(set map[E]struct{}) {
		out = append(out, set)
	})
	if err := eng.For(goalNode).Enumerate(listener); err != nil {
		return nil, err
	}
	return out, nil
}
