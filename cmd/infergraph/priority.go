package main

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gitrdm/infergraph/pkg/infergraph"
	"github.com/gitrdm/infergraph/pkg/infergraph/memgraph"
)

// priorityFileOrder ranks axioms by their line number in a user-supplied
// text file, earlier lines ranking higher. No ecosystem dependency fits
// "read a small ordered text file and expose a monotone comparator" better
// than bufio+slices (SPEC_FULL.md §3.3): this one piece is stdlib by
// necessity.
type priorityFileOrder struct {
	rank map[memgraph.Key]int
}

// loadPriorityFile reads path, one axiom per non-blank line.
func loadPriorityFile(path string) (*priorityFileOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("infergraph: open priority file %s: %w", path, err)
	}
	defer f.Close()

	rank := make(map[memgraph.Key]int)
	sc := bufio.NewScanner(f)
	i := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rank[memgraph.Key(line)] = i
		i++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("infergraph: read priority file %s: %w", path, err)
	}
	return &priorityFileOrder{rank: rank}, nil
}

// comparator keys a justification set by (size, best rank among its
// axioms not found in the file ranking last), so set size alone always
// strictly separates any subset/superset pair and the priority file is
// consulted only to break ties between equally-sized sets — preserving the
// PriorityComparator monotonicity precondition regardless of file contents.
func (p *priorityFileOrder) comparator() infergraph.PriorityComparator[memgraph.Key, [2]int] {
	return infergraph.PriorityComparator[memgraph.Key, [2]int]{
		Key: func(set map[memgraph.Key]struct{}) [2]int {
			best := len(p.rank)
			ranks := make([]int, 0, len(set))
			for a := range set {
				if r, ok := p.rank[a]; ok {
					ranks = append(ranks, r)
				}
			}
			if len(ranks) > 0 {
				best = slices.Min(ranks)
			}
			return [2]int{len(set), best}
		},
		Less: func(a, b [2]int) bool {
			if a[0] != b[0] {
				return a[0] < b[0]
			}
			return a[1] < b[1]
		},
	}
}
