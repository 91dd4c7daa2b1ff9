package resolve

// isSubset reports whether every element of small is in big. Used for both
// the C-domain (premises) and A-domain (justification) halves of
// subsumption; K needs no Key constraint here, only comparable, since
// neither hashing nor a Bloom prefilter is involved at this granularity.
func isSubset[K comparable](small, big map[K]struct{}) bool {
	if len(small) > len(big) {
		return false
	}
	for k := range small {
		if _, ok := big[k]; !ok {
			return false
		}
	}
	return true
}

// unionSize computes |a ∪ b| without allocating a combined set, used for
// Resolvent.premiseCount() so computing a lazy queue element's premise
// count allocates nothing (spec.md §9 Design Notes).
func unionSize[K comparable](a, b map[K]struct{}) int {
	count := len(a)
	for k := range b {
		if _, ok := a[k]; !ok {
			count++
		}
	}
	return count
}

func unionSet[K comparable](a, b map[K]struct{}) map[K]struct{} {
	out := make(map[K]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func cloneSet[K comparable](s map[K]struct{}) map[K]struct{} {
	out := make(map[K]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
