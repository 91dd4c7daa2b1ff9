package resolve_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gitrdm/infergraph/pkg/infergraph"
	"github.com/gitrdm/infergraph/pkg/infergraph/memgraph"
	"github.com/gitrdm/infergraph/pkg/infergraph/resolve"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// collecting is an infergraph.Listener[memgraph.Key] that records every
// emitted minimal justification as a sorted slice of strings, for
// order-independent comparison with go-cmp.
type collecting struct {
	sets [][]string
}

func (c *collecting) NewMinimalSubset(set map[memgraph.Key]struct{}) {
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, string(a))
	}
	sort.Strings(out)
	c.sets = append(c.sets, out)
}

func (c *collecting) sorted() [][]string {
	sort.Slice(c.sets, func(i, j int) bool {
		if len(c.sets[i]) != len(c.sets[j]) {
			return len(c.sets[i]) < len(c.sets[j])
		}
		for k := range c.sets[i] {
			if c.sets[i][k] != c.sets[j][k] {
				return c.sets[i][k] < c.sets[j][k]
			}
		}
		return false
	})
	return c.sets
}

func s1Graph(t *testing.T) *memgraph.Graph {
	t.Helper()
	g, err := memgraph.DecodeJSON([]byte(`{
		"inferences": [
			{"name": "I1", "head": "c", "body": ["a", "b"]},
			{"name": "I2", "head": "a", "body": []},
			{"name": "I3", "head": "b", "body": []}
		],
		"justifications": {"I1": ["x"], "I2": ["y"], "I3": ["z"]}
	}`))
	require.NoError(t, err)
	return g
}

func TestS1_EmitsSingleJustification(t *testing.T) {
	g := s1Graph(t)
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("c").Enumerate(&l))

	want := [][]string{{"x", "y", "z"}}
	if diff := cmp.Diff(want, l.sorted()); diff != "" {
		t.Fatalf("emitted justifications mismatch (-want +got):\n%s", diff)
	}
}

func TestS2_DeadEndBranchContributesNoExtraJustification(t *testing.T) {
	g := s1Graph(t)
	g.Add(memgraph.Inference{ID: "I4", Head: "c", Body: []string{"d"}}, "w")

	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("c").Enumerate(&l))

	want := [][]string{{"x", "y", "z"}}
	if diff := cmp.Diff(want, l.sorted()); diff != "" {
		t.Fatalf("emitted justifications mismatch (-want +got):\n%s", diff)
	}
}

func s3Graph(t *testing.T) *memgraph.Graph {
	t.Helper()
	g, err := memgraph.DecodeJSON([]byte(`{
		"inferences": [
			{"name": "I1", "head": "c", "body": ["a"]},
			{"name": "I2", "head": "c", "body": ["b"]},
			{"name": "I3", "head": "a", "body": []},
			{"name": "I4", "head": "b", "body": []}
		],
		"justifications": {"I1": ["x"], "I2": ["y"], "I3": ["z"], "I4": ["z"]}
	}`))
	require.NoError(t, err)
	return g
}

func TestS3_TwoAlternateMinimalJustifications(t *testing.T) {
	g := s3Graph(t)
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("c").Enumerate(&l))

	want := [][]string{{"x", "z"}, {"y", "z"}}
	if diff := cmp.Diff(want, l.sorted()); diff != "" {
		t.Fatalf("emitted justifications mismatch (-want +got):\n%s", diff)
	}
}

func TestS4_SubsumedDerivationAddsNoNewJustification(t *testing.T) {
	g := s3Graph(t)
	g.Add(memgraph.Inference{ID: "I5", Head: "c", Body: nil}, "x", "z")

	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("c").Enumerate(&l))

	want := [][]string{{"x", "z"}, {"y", "z"}}
	if diff := cmp.Diff(want, l.sorted()); diff != "" {
		t.Fatalf("emitted justifications mismatch (-want +got):\n%s", diff)
	}
}

func TestP7_AscendingPriorityOrder(t *testing.T) {
	// c has two derivations: via I1/I3 with justification {x}, and via
	// I2/I3/I4 with {x, y, w}. The default size order reaches {x} first,
	// so the 3-element superset is never emitted.
	g, err := memgraph.DecodeJSON([]byte(`{
		"inferences": [
			{"name": "I1", "head": "c", "body": ["a"]},
			{"name": "I2", "head": "c", "body": ["a", "b"]},
			{"name": "I3", "head": "a", "body": []},
			{"name": "I4", "head": "b", "body": []}
		],
		"justifications": {"I1": ["x"], "I2": ["x", "y"], "I3": [], "I4": ["w"]}
	}`))
	require.NoError(t, err)

	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("c").Enumerate(&l))

	require.Len(t, l.sets, 1)
	assert.Equal(t, []string{"x"}, l.sets[0])
}

func TestGoalChange_ReEntryProducesBothGoals(t *testing.T) {
	g := s3Graph(t)
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	var l1 collecting
	require.NoError(t, eng.For("c").Enumerate(&l1))
	require.Len(t, l1.sets, 2)

	var l2 collecting
	require.NoError(t, eng.For("a").Enumerate(&l2))
	want := [][]string{{"z"}}
	if diff := cmp.Diff(want, l2.sorted()); diff != "" {
		t.Fatalf("emitted justifications mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerateOrdered_PriorityFileStyleComparator(t *testing.T) {
	g := s3Graph(t)
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	// Prefer sets NOT containing "y" (simulating a user priority file that
	// ranks "x" above "y"). The key ignores set size, so it only weakly
	// respects ⊆ (a set containing "y" ties with its supersets); on this
	// graph the two minimal justifications are still both emitted, {x,z}
	// first.
	order := infergraph.PriorityComparator[memgraph.Key, int]{
		Key: func(set map[memgraph.Key]struct{}) int {
			if _, ok := set["y"]; ok {
				return 1
			}
			return 0
		},
		Less: func(a, b int) bool { return a < b },
	}

	var l collecting
	require.NoError(t, resolve.EnumerateOrdered[memgraph.Key, memgraph.Key, int](eng, "c", order, &l))
	require.Len(t, l.sets, 2)
	assert.Equal(t, []string{"x", "z"}, l.sets[0])
}

func TestNewEngine_NilInferenceSetErrors(t *testing.T) {
	_, err := resolve.NewEngine[memgraph.Key, memgraph.Key](nil, nil, nil)
	assert.ErrorIs(t, err, resolve.ErrNilInferenceSet)
}

func TestNewEngine_NilJustifierErrors(t *testing.T) {
	g := memgraph.New()
	_, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, nil, nil)
	assert.ErrorIs(t, err, resolve.ErrNilJustifier)
}

func TestBottomUpSelection_StillFindsAllMinimalJustifications(t *testing.T) {
	g := s3Graph(t)
	cfg := resolve.DefaultConfig[memgraph.Key, memgraph.Key]()
	cfg.Selection = resolve.NewBottomUp[memgraph.Key, memgraph.Key]()
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, cfg)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("c").Enumerate(&l))
	want := [][]string{{"x", "z"}, {"y", "z"}}
	if diff := cmp.Diff(want, l.sorted()); diff != "" {
		t.Fatalf("emitted justifications mismatch (-want +got):\n%s", diff)
	}
}

func TestTopDownSelection_StillFindsAllMinimalJustifications(t *testing.T) {
	g := s3Graph(t)
	cfg := resolve.DefaultConfig[memgraph.Key, memgraph.Key]()
	cfg.Selection = resolve.NewTopDown[memgraph.Key, memgraph.Key]()
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, cfg)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("c").Enumerate(&l))
	want := [][]string{{"x", "z"}, {"y", "z"}}
	if diff := cmp.Diff(want, l.sorted()); diff != "" {
		t.Fatalf("emitted justifications mismatch (-want +got):\n%s", diff)
	}
}

func TestCyclicGraph_TerminatesWithNoJustifications(t *testing.T) {
	g, err := memgraph.DecodeJSON([]byte(`{
		"inferences": [
			{"name": "I1", "head": "a", "body": ["b"]},
			{"name": "I2", "head": "b", "body": ["a"]}
		],
		"justifications": {"I1": [], "I2": []}
	}`))
	require.NoError(t, err)

	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("a").Enumerate(&l))
	assert.Empty(t, l.sets)
}

func TestMaxDerivedPremises_DropsOversizedDerivations(t *testing.T) {
	g := s1Graph(t)
	cfg := resolve.DefaultConfig[memgraph.Key, memgraph.Key]()
	cfg.MaxDerivedPremises = 1
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, cfg)
	require.NoError(t, err)

	var l collecting
	require.NoError(t, eng.For("c").Enumerate(&l))
	// I1 requires two premises (a, b); capped at 1, its resolved-down
	// derivation never reaches zero premises, so nothing is emitted.
	assert.Empty(t, l.sets)
}

func TestEnumerate_NilListenerErrors(t *testing.T) {
	g := s1Graph(t)
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, nil)
	require.NoError(t, err)

	err = eng.For("c").Enumerate(nil)
	assert.ErrorIs(t, err, resolve.ErrNilListener)
}

func TestMaxQueueSize_OverflowErrors(t *testing.T) {
	g := s1Graph(t)
	cfg := resolve.DefaultConfig[memgraph.Key, memgraph.Key]()
	// s1Graph's goal "c" initializes 3 direct elements (I1, I2, I3); capping
	// the queue below that forces an immediate overflow.
	cfg.MaxQueueSize = 1
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, cfg)
	require.NoError(t, err)

	var l collecting
	err = eng.For("c").Enumerate(&l)
	assert.ErrorIs(t, err, resolve.ErrQueueOverflow)
}

// alwaysConclusion is a pathological Selection that always pivots on the
// conclusion, even when the conclusion is the current goal and premises
// remain — the one case spec.md §4.4/§7 rules out as an invalid pivot.
type alwaysConclusion[C infergraph.Key, A infergraph.Key] struct{}

func (alwaysConclusion[C, A]) Name() string        { return "always-conclusion" }
func (alwaysConclusion[C, A]) Description() string { return "always selects the conclusion" }
func (alwaysConclusion[C, A]) Select(_ C, _ *resolve.DerivedInference[C, A], _ func(C) int) resolve.Pivot[C] {
	return resolve.Pivot[C]{IsConclusion: true}
}

func TestImpossibleSelection_Errors(t *testing.T) {
	g := s1Graph(t)
	cfg := resolve.DefaultConfig[memgraph.Key, memgraph.Key]()
	cfg.Selection = alwaysConclusion[memgraph.Key, memgraph.Key]{}
	eng, err := resolve.NewEngine[memgraph.Key, memgraph.Key](g, g, cfg)
	require.NoError(t, err)

	var l collecting
	err = eng.For("c").Enumerate(&l)
	assert.ErrorIs(t, err, resolve.ErrImpossibleSelection)
}

// nilableKey is a pointer-based infergraph.Key so a nil value is actually
// representable, unlike memgraph.Key (a plain string).
type nilableKey = *keyNode

type keyNode struct {
	id string
}

func (k *keyNode) Hash() uint64 {
	if k == nil {
		return 0
	}
	var h uint64 = 1469598103934665603
	for i := 0; i < len(k.id); i++ {
		h ^= uint64(k.id[i])
		h *= 1099511628211
	}
	return h
}

type emptyGraph struct{}

func (emptyGraph) InferencesOf(nilableKey) []infergraph.Inference[nilableKey] { return nil }
func (emptyGraph) JustificationOf(infergraph.Inference[nilableKey]) map[nilableKey]struct{} {
	return nil
}

func TestEnumerateOrdered_NilGoalErrors(t *testing.T) {
	eng, err := resolve.NewEngine[nilableKey, nilableKey](emptyGraph{}, emptyGraph{}, nil)
	require.NoError(t, err)

	order := infergraph.PriorityComparator[nilableKey, int]{
		Key:  func(set map[nilableKey]struct{}) int { return len(set) },
		Less: func(a, b int) bool { return a < b },
	}
	err = resolve.EnumerateOrdered[nilableKey, nilableKey, int](eng, nil, order, nilListener{})
	assert.ErrorIs(t, err, resolve.ErrNilGoal)
}

// nilListener satisfies infergraph.Listener[nilableKey] purely to exercise
// ErrNilGoal; it is never actually invoked since EnumerateOrdered must fail
// before producing any output.
type nilListener struct{}

func (nilListener) NewMinimalSubset(map[nilableKey]struct{}) {}
