package resolve

import "github.com/gitrdm/infergraph/pkg/infergraph"

// DerivedInference is the internal RE triple from spec.md §3: a conclusion,
// a set of premises, and a set of justification axioms, obtained either by
// lifting an original Inference or by resolving two derived inferences.
// Ownership is shared across the engine's indexes once stored (spec.md §9
// Design Notes: "indexes hold handles, not owners").
type DerivedInference[C infergraph.Key, A infergraph.Key] struct {
	Conclusion    C
	Premises      map[C]struct{}
	Justification map[A]struct{}

	// Name is diagnostic only, combining the originating inference name(s).
	Name string

	// markedMinimal records whether this exact object has already passed
	// the minimalInferencesByConclusions subsumption test. It persists
	// across queries when the inference survives via blockedInferences, so
	// a re-queued inference is not re-tested or re-added to the
	// engine-shared subsumption index a second time (spec.md §4.4 step 6).
	markedMinimal bool
}

// IsTautology reports whether the conclusion appears among the premises
// (spec.md §3); such derived inferences are excluded from resolution.
func (d *DerivedInference[C, A]) IsTautology() bool {
	_, ok := d.Premises[d.Conclusion]
	return ok
}

// queueElement is the lazy carrier stored in the produced-inference
// priority queue: either a Direct (already materialized) or Resolvent
// (materialized only when popped) derived inference, comparable by
// (priority, premiseCount) without requiring materialization first
// (spec.md §4.4 "Queue elements (laziness)").
type queueElement[C infergraph.Key, A infergraph.Key, P any] interface {
	priority() P
	premiseCount() int
	materialize() *DerivedInference[C, A]
}

type directElement[C infergraph.Key, A infergraph.Key, P any] struct {
	inf *DerivedInference[C, A]
	p   P
}

func newDirectElement[C infergraph.Key, A infergraph.Key, P any](
	inf *DerivedInference[C, A],
	comparator infergraph.PriorityComparator[A, P],
) *directElement[C, A, P] {
	return &directElement[C, A, P]{inf: inf, p: comparator.Key(inf.Justification)}
}

func (d *directElement[C, A, P]) priority() P                         { return d.p }
func (d *directElement[C, A, P]) premiseCount() int                   { return len(d.inf.Premises) }
func (d *directElement[C, A, P]) materialize() *DerivedInference[C, A] { return d.inf }

// resolventElement holds the pair (X, Y) to be resolved: X's conclusion is
// the shared literal, Y is the inference whose premises contain it. The
// combined derived inference is built only in materialize(); priority and
// premiseCount are computed eagerly from the parents per spec.md §4.4,
// without allocating the premises union (only the (typically small)
// justification union is built eagerly, since it both doubles as the
// comparator's input and the materialized inference's final
// justification — see DESIGN.md for why this departs slightly from "no
// allocation at all").
type resolventElement[C infergraph.Key, A infergraph.Key, P any] struct {
	x, y  *DerivedInference[C, A]
	p     P
	count int
	just  map[A]struct{}
}

// newResolvent builds the lazy resolvent of x (conclusion side) against y
// (premise side). It reports isTautology = true without allocating
// anything further when conclusion(y) ∈ premises(x), per spec.md §4.4's
// Resolvent.isATautology definition; callers must discard the element in
// that case rather than pushing it onto the queue (spec.md "Tautology
// handling": discarded at production time).
func newResolvent[C infergraph.Key, A infergraph.Key, P any](
	x, y *DerivedInference[C, A],
	comparator infergraph.PriorityComparator[A, P],
) (elem *resolventElement[C, A, P], isTautology bool) {
	if _, ok := x.Premises[y.Conclusion]; ok {
		return nil, true
	}
	just := unionSet(x.Justification, y.Justification)
	count := unionSize(x.Premises, y.Premises) - 1
	return &resolventElement[C, A, P]{x: x, y: y, p: comparator.Key(just), count: count, just: just}, false
}

func (r *resolventElement[C, A, P]) priority() P       { return r.p }
func (r *resolventElement[C, A, P]) premiseCount() int { return r.count }

func (r *resolventElement[C, A, P]) materialize() *DerivedInference[C, A] {
	premises := make(map[C]struct{}, len(r.x.Premises)+len(r.y.Premises))
	for p := range r.x.Premises {
		premises[p] = struct{}{}
	}
	for p := range r.y.Premises {
		if p == r.x.Conclusion {
			continue
		}
		premises[p] = struct{}{}
	}
	return &DerivedInference[C, A]{
		Conclusion:    r.y.Conclusion,
		Premises:      premises,
		Justification: r.just,
		Name:          r.x.Name + "+" + r.y.Name,
	}
}
