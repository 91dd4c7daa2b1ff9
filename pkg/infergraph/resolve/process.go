package resolve

import (
	"container/heap"
	"fmt"
	"reflect"

	"github.com/gitrdm/infergraph/pkg/infergraph"
	"github.com/gitrdm/infergraph/pkg/infergraph/minimal"
)

// Enumerator is a goal-bound view over an Engine satisfying
// infergraph.MinimalSubsetEnumerator[A]. Its Enumerate method runs the
// engine's default priority order: ascending justification-set size.
type Enumerator[C infergraph.Key, A infergraph.Key] struct {
	engine *Engine[C, A]
	goal   C
}

// For returns an Enumerator bound to goal, ready for Enumerate.
func (e *Engine[C, A]) For(goal C) *Enumerator[C, A] {
	return &Enumerator[C, A]{engine: e, goal: goal}
}

// Enumerate implements infergraph.MinimalSubsetEnumerator[A], enumerating
// in ascending justification-set-size order (spec.md §6 "default priority
// is ascending set size").
func (q *Enumerator[C, A]) Enumerate(listener infergraph.Listener[A]) error {
	return EnumerateOrdered(q.engine, q.goal, defaultComparator[A](), listener)
}

func defaultComparator[A infergraph.Key]() infergraph.PriorityComparator[A, int] {
	return infergraph.PriorityComparator[A, int]{
		Key:  func(set map[A]struct{}) int { return len(set) },
		Less: func(a, b int) bool { return a < b },
	}
}

func isNilGoal[C any](c C) bool {
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// EnumerateOrdered runs the Resolution Engine for goal using a
// caller-supplied PriorityComparator[A, P], reporting every subset-minimal
// justification to listener exactly once, in non-decreasing priority order
// (spec.md §4.4, §5 "Ordering guarantees"). It exists as a free function —
// rather than a method on MinimalSubsetEnumerator — because Go interface
// methods cannot introduce their own type parameter (here, P); see
// infergraph.PriorityComparator's doc comment.
func EnumerateOrdered[C infergraph.Key, A infergraph.Key, P any](
	e *Engine[C, A],
	goal C,
	comparator infergraph.PriorityComparator[A, P],
	listener infergraph.Listener[A],
) error {
	if e == nil {
		return ErrNilInferenceSet
	}
	if listener == nil {
		return ErrNilListener
	}
	if isNilGoal(goal) {
		return ErrNilGoal
	}

	pq := &pqueue[C, A, P]{comparator: comparator}
	heap.Init(pq)

	initializeQuery(e, goal, comparator, pq)
	unblockJobs(e, comparator, pq)
	changeSelection(e, goal, comparator, pq)

	minimalJustifications := minimal.New[A]()

	for {
		if e.config.Interrupt.IsInterrupted() {
			return nil
		}
		if pq.Len() == 0 {
			return nil
		}
		if e.config.MaxQueueSize > 0 && pq.Len() > e.config.MaxQueueSize {
			return ErrQueueOverflow
		}

		elem := heap.Pop(pq).(queueElement[C, A, P])
		inf := elem.materialize()
		e.producedInferenceCount++

		if inf.IsTautology() {
			e.tracef("materialized-tautology-drop", "conclusion", fmt.Sprint(inf.Conclusion), "inference", inf.Name)
			continue
		}

		if e.config.MaxDerivedPremises > 0 && len(inf.Premises) > e.config.MaxDerivedPremises {
			e.tracef("depth-bound-drop", "conclusion", fmt.Sprint(inf.Conclusion), "premises", len(inf.Premises))
			continue
		}

		if !minimalJustifications.IsMinimal(inf.Justification) {
			e.blockedInferences = append(e.blockedInferences, inf)
			continue
		}

		if len(inf.Premises) == 0 && inf.Conclusion == goal {
			minimalJustifications.Add(inf.Justification)
			listener.NewMinimalSubset(cloneSet(inf.Justification))
			e.blockedInferences = append(e.blockedInferences, inf)
			continue
		}

		if !inf.markedMinimal {
			if !e.testAndStoreMinimal(inf) {
				continue
			}
			inf.markedMinimal = true
			e.minimalInferenceCount++
		}

		pivot := e.config.Selection.Select(goal, inf, e.inferenceCount)
		if pivot.IsConclusion && inf.Conclusion == goal && len(inf.Premises) > 0 {
			return ErrImpossibleSelection
		}

		if pivot.IsConclusion {
			e.inferencesBySelectedConclusions[inf.Conclusion] = append(e.inferencesBySelectedConclusions[inf.Conclusion], inf)
			for _, y := range e.inferencesBySelectedPremises[inf.Conclusion] {
				if r, taut := newResolvent(inf, y, comparator); !taut {
					heap.Push(pq, r)
				}
			}
		} else {
			p := pivot.Premise
			e.inferencesBySelectedPremises[p] = append(e.inferencesBySelectedPremises[p], inf)
			for _, x := range e.inferencesBySelectedConclusions[p] {
				if r, taut := newResolvent(x, inf, comparator); !taut {
					heap.Push(pq, r)
				}
			}
		}
	}
}

// initializeQuery traverses from goal through the IP, lifting every
// reachable non-tautological inference into a Direct queue element. The
// shared Engine.initialized set ensures each conclusion's original
// inferences are lifted at most once across the engine's lifetime
// (spec.md §4.4 "Initialization per query").
func initializeQuery[C infergraph.Key, A infergraph.Key, P any](
	e *Engine[C, A],
	goal C,
	comparator infergraph.PriorityComparator[A, P],
	pq *pqueue[C, A, P],
) {
	toInitialize := []C{goal}
	for len(toInitialize) > 0 {
		c := toInitialize[0]
		toInitialize = toInitialize[1:]
		if _, ok := e.initialized[c]; ok {
			continue
		}
		e.initialized[c] = struct{}{}

		infs := e.ip.InferencesOf(c)
		e.inferenceCountCache[c] = len(infs)

		for _, inf := range infs {
			if isTautologyInf(inf) {
				continue
			}
			premises := inf.Premises()
			premiseSet := make(map[C]struct{}, len(premises))
			for _, p := range premises {
				premiseSet[p] = struct{}{}
				toInitialize = append(toInitialize, p)
			}
			derived := &DerivedInference[C, A]{
				Conclusion:    inf.Conclusion(),
				Premises:      premiseSet,
				Justification: cloneSet(e.justifier.JustificationOf(inf)),
				Name:          inf.Name(),
			}
			heap.Push(pq, newDirectElement(derived, comparator))
		}
	}
}

// unblockJobs drains Engine.blockedInferences (shelved by a previous query
// because their justification was not minimal *then*) into the new query's
// queue as Direct elements, since they may be minimal for the new goal
// (spec.md §4.4 "Goal change / re-entry").
func unblockJobs[C infergraph.Key, A infergraph.Key, P any](
	e *Engine[C, A],
	comparator infergraph.PriorityComparator[A, P],
	pq *pqueue[C, A, P],
) {
	pending := e.blockedInferences
	e.blockedInferences = nil
	for _, inf := range pending {
		heap.Push(pq, newDirectElement(inf, comparator))
	}
}

// changeSelection removes every derived inference previously indexed under
// inferencesBySelectedConclusions[goal] and re-enqueues it, so the new
// selection pass can relocate its pivot — a selection rule may behave
// differently now that this conclusion is the goal (spec.md §4.4).
//
// Per spec.md §9 Design Notes "Open question", this is deliberately
// asymmetric: inferences previously pivoted on this conclusion as a
// *premise* are not similarly re-enqueued, which can leave stale pivots
// under a goal-dependent strategy like TopDown. Preserved as specified;
// see DESIGN.md Open Question decisions.
func changeSelection[C infergraph.Key, A infergraph.Key, P any](
	e *Engine[C, A],
	goal C,
	comparator infergraph.PriorityComparator[A, P],
	pq *pqueue[C, A, P],
) {
	stale := e.inferencesBySelectedConclusions[goal]
	delete(e.inferencesBySelectedConclusions, goal)
	for _, inf := range stale {
		heap.Push(pq, newDirectElement(inf, comparator))
	}
}
