// Package minimal implements the Minimality Index (MI) from spec.md §4.3:
// a container that answers, for a candidate set of elements, whether it is
// subset-minimal with respect to every set previously added to it.
//
// The required implementation keeps a 64-bit Bloom-filter fingerprint per
// stored set so that most candidates are rejected without ever touching
// the stored element sets themselves. The fingerprint is a prefilter only:
// IsMinimal always falls back to an exact subset test before answering, so
// the index stays correct even under Bloom false positives.
package minimal

import "github.com/gitrdm/infergraph/pkg/infergraph"

// entry pairs a stored set with its precomputed fingerprint.
type entry[E infergraph.Key] struct {
	elements    map[E]struct{}
	fingerprint uint64
}

// Index is the Minimality Index, generic over any element type satisfying
// infergraph.Key. Add(S) and IsMinimal(S) together realize spec.md P9: for
// any sequence of calls, IsMinimal(S) is true iff no previously added X
// satisfies elements(X) ⊆ elements(S).
//
// Index is not safe for concurrent use; callers needing concurrent access
// must serialize their own calls, consistent with the single-threaded
// engines built on top of it (spec.md §5).
type Index[E infergraph.Key] struct {
	entries []entry[E]
}

// New creates an empty Minimality Index.
func New[E infergraph.Key]() *Index[E] {
	return &Index[E]{}
}

// fingerprintOf ORs in one bit per element, derived from the element's
// hash, forming the 64-bit Bloom fingerprint described in spec.md §4.3.
func fingerprintOf[E infergraph.Key](set map[E]struct{}) uint64 {
	var fp uint64
	for e := range set {
		fp |= uint64(1) << (e.Hash() % 64)
	}
	return fp
}

// IsMinimal reports whether no set previously Add-ed to the index is a
// subset of set. The Bloom fingerprint of each stored entry is checked
// first: if fingerprint(X) & fingerprint(S) != fingerprint(X), X cannot be
// a subset of S (some element of X set a bit that no element of S set),
// so X is skipped without an exact comparison. Surviving candidates get an
// exact element-by-element subset test, which is what IsMinimal's
// correctness rests on — the Bloom filter only prunes work.
func (ix *Index[E]) IsMinimal(set map[E]struct{}) bool {
	fp := fingerprintOf(set)
	for _, x := range ix.entries {
		if x.fingerprint&fp != x.fingerprint {
			continue
		}
		if isSubset(x.elements, set) {
			return false
		}
	}
	return true
}

// Add inserts set into the index. Callers typically call IsMinimal first
// and only Add when it returned true, but Add itself never checks
// minimality — that separation lets callers implement "test, then
// conditionally commit" without a race between the two in a
// single-threaded engine.
func (ix *Index[E]) Add(set map[E]struct{}) {
	cloned := make(map[E]struct{}, len(set))
	for e := range set {
		cloned[e] = struct{}{}
	}
	ix.entries = append(ix.entries, entry[E]{elements: cloned, fingerprint: fingerprintOf(cloned)})
}

// Len returns the number of sets currently stored.
func (ix *Index[E]) Len() int {
	return len(ix.entries)
}

// Sets returns a snapshot of every stored set, for diagnostics and tests.
// Callers must not mutate the returned sets.
func (ix *Index[E]) Sets() []map[E]struct{} {
	out := make([]map[E]struct{}, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = e.elements
	}
	return out
}

func isSubset[E infergraph.Key](small, big map[E]struct{}) bool {
	if len(small) > len(big) {
		return false
	}
	for e := range small {
		if _, ok := big[e]; !ok {
			return false
		}
	}
	return true
}
