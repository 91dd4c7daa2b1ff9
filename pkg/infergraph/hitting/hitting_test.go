package hitting_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/infergraph/pkg/infergraph/hitting"
)

type strElem string

func (s strElem) Hash() uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func toSortedStrings(t *testing.T, sets []map[strElem]struct{}) [][]string {
	t.Helper()
	out := make([][]string, 0, len(sets))
	for _, s := range sets {
		row := make([]string, 0, len(s))
		for e := range s {
			row = append(row, string(e))
		}
		sort.Strings(row)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		for k := range out[i] {
			if out[i][k] != out[j][k] {
				return out[i][k] < out[j][k]
			}
		}
		return false
	})
	return out
}

func TestS6_MinimalHittingSets(t *testing.T) {
	family := [][]strElem{
		{"a", "b"},
		{"b", "c"},
		{"c"},
	}

	got, err := hitting.MinimalHittingSets(family)
	require.NoError(t, err)

	want := [][]string{{"a", "c"}, {"b", "c"}}
	assert.Equal(t, want, toSortedStrings(t, got))
}

func TestMinimalHittingSets_EmptyFamilyMemberErrors(t *testing.T) {
	family := [][]strElem{
		{"a"},
		{},
	}
	_, err := hitting.MinimalHittingSets(family)
	assert.ErrorIs(t, err, hitting.ErrEmptyFamilyMember)
}

func TestMinimalHittingSets_SingleMemberYieldsSingletons(t *testing.T) {
	family := [][]strElem{{"a", "b", "c"}}
	got, err := hitting.MinimalHittingSets(family)
	require.NoError(t, err)

	want := [][]string{{"a"}, {"b"}, {"c"}}
	assert.Equal(t, want, toSortedStrings(t, got))
}

func TestMinimalHittingSets_DisjointMembersRequireOneFromEach(t *testing.T) {
	family := [][]strElem{{"a"}, {"b"}}
	got, err := hitting.MinimalHittingSets(family)
	require.NoError(t, err)

	want := [][]string{{"a", "b"}}
	assert.Equal(t, want, toSortedStrings(t, got))
}
