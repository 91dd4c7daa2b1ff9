package resolve

import "github.com/gitrdm/infergraph/pkg/infergraph"

// pqueue is a container/heap min-heap of queueElement, ordered by the
// user-supplied comparator's priority first, then ascending premiseCount
// (spec.md §4.4 "Comparison"). No third-party generic heap/priority-queue
// library was found anywhere in the retrieved pack (nor does the teacher
// use one) — container/heap is the idiomatic stdlib choice here, same
// reasoning as SPEC_FULL.md §3.3's priority-file ordering; see DESIGN.md.
type pqueue[C infergraph.Key, A infergraph.Key, P any] struct {
	items      []queueElement[C, A, P]
	comparator infergraph.PriorityComparator[A, P]
}

func (q *pqueue[C, A, P]) Len() int { return len(q.items) }

func (q *pqueue[C, A, P]) Less(i, j int) bool {
	pi, pj := q.items[i].priority(), q.items[j].priority()
	if q.comparator.Less(pi, pj) {
		return true
	}
	if q.comparator.Less(pj, pi) {
		return false
	}
	return q.items[i].premiseCount() < q.items[j].premiseCount()
}

func (q *pqueue[C, A, P]) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *pqueue[C, A, P]) Push(x any) {
	q.items = append(q.items, x.(queueElement[C, A, P]))
}

func (q *pqueue[C, A, P]) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}
