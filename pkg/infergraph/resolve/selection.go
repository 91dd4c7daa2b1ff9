package resolve

import (
	"fmt"

	"github.com/gitrdm/infergraph/pkg/infergraph"
)

// Pivot is the result of a Selection decision: either a specific premise to
// resolve on, or the conclusion (IsConclusion true, Premise is the zero
// value and unused). This mirrors spec.md §4.4's "a premise, or null meaning
// the conclusion".
type Pivot[C infergraph.Key] struct {
	IsConclusion bool
	Premise      C
}

// Selection chooses the resolution pivot for a just-stored derived
// inference. Bundled strategies are grounded on the teacher's
// pkg/minikanren/strategy.go pattern: small named/described value types
// satisfying a one-method interface, installed into the engine at
// construction.
type Selection[C infergraph.Key, A infergraph.Key] interface {
	Name() string
	Description() string
	// Select returns the pivot for inf given the current query's goal and
	// a callback reporting how many IP inferences produce a given
	// conclusion (used to find the "fewest IP inferences" premise).
	Select(goal C, inf *DerivedInference[C, A], inferenceCount func(C) int) Pivot[C]
}

// fewestPremise returns the premise in premises with the smallest
// inferenceCount, and that count. Ties resolve to whichever premise the map
// iteration visits first, which is unspecified by Go but immaterial to
// correctness: any minimum-count premise is a valid pivot.
func fewestPremise[C infergraph.Key](premises map[C]struct{}, inferenceCount func(C) int) (C, int) {
	var best C
	bestCount := -1
	first := true
	for p := range premises {
		n := inferenceCount(p)
		if first || n < bestCount {
			best, bestCount, first = p, n, false
		}
	}
	return best, bestCount
}

type bottomUp[C infergraph.Key, A infergraph.Key] struct{}

// NewBottomUp returns the BottomUp strategy: always the premise derived by
// the fewest IP inferences, or the conclusion if there are no premises.
func NewBottomUp[C infergraph.Key, A infergraph.Key]() Selection[C, A] { return bottomUp[C, A]{} }

func (bottomUp[C, A]) Name() string { return "bottom-up" }
func (bottomUp[C, A]) Description() string {
	return "always selects the premise derived by the fewest IP inferences, falling back to the conclusion when there are no premises"
}
func (bottomUp[C, A]) Select(_ C, inf *DerivedInference[C, A], inferenceCount func(C) int) Pivot[C] {
	if len(inf.Premises) == 0 {
		return Pivot[C]{IsConclusion: true}
	}
	p, _ := fewestPremise(inf.Premises, inferenceCount)
	return Pivot[C]{Premise: p}
}

type topDown[C infergraph.Key, A infergraph.Key] struct{}

// NewTopDown returns the TopDown strategy: the conclusion, unless it is the
// goal and premises remain, in which case the least-derived premise.
func NewTopDown[C infergraph.Key, A infergraph.Key]() Selection[C, A] { return topDown[C, A]{} }

func (topDown[C, A]) Name() string { return "top-down" }
func (topDown[C, A]) Description() string {
	return "selects the conclusion unless it is the goal with remaining premises, in which case the premise derived by the fewest IP inferences"
}
func (topDown[C, A]) Select(goal C, inf *DerivedInference[C, A], inferenceCount func(C) int) Pivot[C] {
	if inf.Conclusion == goal && len(inf.Premises) > 0 {
		p, _ := fewestPremise(inf.Premises, inferenceCount)
		return Pivot[C]{Premise: p}
	}
	return Pivot[C]{IsConclusion: true}
}

type threshold[C infergraph.Key, A infergraph.Key] struct{ t int }

// NewThreshold returns the Threshold(t) strategy: the least-derived
// premise, unless its inference count exceeds t and the conclusion is not
// the goal, in which case the conclusion. T=2 is the factory default
// (spec.md §4.4).
func NewThreshold[C infergraph.Key, A infergraph.Key](t int) Selection[C, A] {
	return threshold[C, A]{t: t}
}

func (s threshold[C, A]) Name() string { return "threshold" }
func (s threshold[C, A]) Description() string {
	return fmt.Sprintf("selects the minimum-inference-count premise unless its count exceeds %d and the conclusion is not the goal, in which case it selects the conclusion", s.t)
}
func (s threshold[C, A]) Select(goal C, inf *DerivedInference[C, A], inferenceCount func(C) int) Pivot[C] {
	if len(inf.Premises) == 0 {
		return Pivot[C]{IsConclusion: true}
	}
	p, count := fewestPremise(inf.Premises, inferenceCount)
	if count > s.t && inf.Conclusion != goal {
		return Pivot[C]{IsConclusion: true}
	}
	return Pivot[C]{Premise: p}
}
