package memgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/infergraph/pkg/infergraph"
	"github.com/gitrdm/infergraph/pkg/infergraph/memgraph"
)

func TestDecodeJSON_BuildsGraph(t *testing.T) {
	doc := []byte(`{
		"inferences": [
			{"name": "I1", "head": "c", "body": ["a", "b"]},
			{"name": "I2", "head": "a", "body": []},
			{"name": "I3", "head": "b", "body": []}
		],
		"justifications": {
			"I1": ["x"],
			"I2": ["y"],
			"I3": ["z"]
		}
	}`)

	g, err := memgraph.DecodeJSON(doc)
	require.NoError(t, err)

	infs := g.InferencesOf("c")
	require.Len(t, infs, 1)
	assert.Equal(t, memgraph.Key("c"), infs[0].Conclusion())
	assert.Equal(t, []memgraph.Key{"a", "b"}, infs[0].Premises())

	just := g.JustificationOf(infs[0])
	require.Len(t, just, 1)
	_, ok := just["x"]
	assert.True(t, ok)
}

func TestInferencesOf_UnknownConclusionEmpty(t *testing.T) {
	g := memgraph.New()
	assert.Empty(t, g.InferencesOf("nope"))
}

type recordingListener struct {
	seen []memgraph.Key
}

func (r *recordingListener) InferencesChanged(c memgraph.Key) {
	r.seen = append(r.seen, c)
}

func TestAddListener_NotifiedOnAdd(t *testing.T) {
	g := memgraph.New()
	var l recordingListener
	g.AddListener(&l)

	g.Add(memgraph.Inference{ID: "I1", Head: "c", Body: []string{"a"}}, "x")
	require.Len(t, l.seen, 1)
	assert.Equal(t, memgraph.Key("c"), l.seen[0])

	g.RemoveListener(&l)
	g.Add(memgraph.Inference{ID: "I2", Head: "c", Body: nil}, "y")
	assert.Len(t, l.seen, 1, "no further notifications after removal")
}

func TestDispose_ClearsListeners(t *testing.T) {
	g := memgraph.New()
	var l recordingListener
	g.AddListener(&l)
	g.Dispose()
	g.Add(memgraph.Inference{ID: "I1", Head: "c"}, "x")
	assert.Empty(t, l.seen)
}

var _ infergraph.DynamicInferenceSet[memgraph.Key] = (*memgraph.Graph)(nil)
var _ infergraph.InferenceJustifier[memgraph.Key, memgraph.Key] = (*memgraph.Graph)(nil)
