package encoding

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsgraph/internal/models"
)

func attrs(kv ...string) models.Attributes {
	var a models.Attributes
	for i := 0; i < len(kv); i += 2 {
		a.Set(kv[i], kv[i+1])
	}
	return a
}

func TestOneHot(t *testing.T) {
	enc := NewOneHot("keyText", Node, "store", "load", "alloca", "load")
	assert.Equal(t, []string{"alloca", "load", "store"}, enc.Tags)
	assert.Equal(t, 3, enc.Width())

	got, err := enc.Encode("load")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, got)

	got, err = enc.Encode(" st ore")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 1}, got)

	_, err = enc.Encode("phi")
	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "keyText", encErr.Label)
	assert.Equal(t, "phi", encErr.Value)
}

func TestLinear(t *testing.T) {
	enc := NewLinear("numeric", Node, 256)
	for raw, want := range map[string]float32{"0": -1, "128": 0, "256": 1} {
		got, err := enc.Encode(raw)
		require.NoError(t, err)
		assert.InDelta(t, want, got[0], 1e-6, raw)
	}
	_, err := enc.Encode("abc")
	require.Error(t, err)
}

func TestLog(t *testing.T) {
	enc := NewLog("fullUnrollFactor", Node, 512, 2)
	low, err := enc.Encode("0")
	require.NoError(t, err)
	assert.InDelta(t, -1, low[0], 1e-6)

	high, err := enc.Encode("512")
	require.NoError(t, err)
	assert.InDelta(t, 1, high[0], 1e-6)

	mid, err := enc.Encode("30")
	require.NoError(t, err)
	assert.Greater(t, mid[0], float32(-1))
	assert.Less(t, mid[0], float32(1))

	_, err = enc.Encode("-2")
	require.Error(t, err)
}

func TestRangeTags(t *testing.T) {
	assert.Equal(t, []string{"0", "1", "2"}, RangeTags(3))
	// lexicographic order once fitted
	assert.Equal(t, []string{"0", "1", "10", "11", "2"}, NewOneHot("bbID", Node, RangeTags(12)...).Tags[:5])
}

func testEncoders() []Encoder {
	return []Encoder{
		NewOneHot("nodeType", Node, "instruction", "variable"),
		NewOneHot("flowType", Edge, "control", "dataflow"),
		NewLinear("numeric", Node, 4),
	}
}

func testGraph() *models.AttributeGraph {
	return &models.AttributeGraph{
		Nodes: []models.Node{
			{ID: "n0", Attrs: attrs("nodeType", "instruction", "numeric", "0")},
			{ID: "n1", Attrs: attrs("nodeType", "variable", "numeric", "4")},
			{ID: "n2", Attrs: attrs("nodeType", "instruction", "numeric", "2")},
		},
		Edges: []models.Edge{
			{Source: "n0", Target: "n1", Attrs: attrs("flowType", "dataflow")},
			{Source: "n2", Target: "n0", Attrs: attrs("flowType", "control")},
		},
	}
}

func TestNodeMatrix(t *testing.T) {
	x, err := NodeMatrix(testEncoders(), testGraph().Nodes)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0, -1}, {0, 1, 1}, {1, 0, 0}}, x)
	assert.Equal(t, 3, Width(testEncoders(), Node))
}

func TestNodeMatrixMissingAttribute(t *testing.T) {
	nodes := []models.Node{{ID: "n7", Attrs: attrs("nodeType", "variable")}}
	_, err := NodeMatrix(testEncoders(), nodes)

	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "numeric", encErr.Label)
	assert.Equal(t, "node n7", encErr.Object)
}

func TestEdgeMatrix(t *testing.T) {
	g := testGraph()
	m, err := EdgeMatrix(testEncoders(), g.Edges)
	require.NoError(t, err)
	require.Len(t, m, 4)
	assert.Equal(t, []float32{0, 1, 1, 0}, m[0])
	assert.Equal(t, []float32{1, 0, 1, 0}, m[1])
	assert.Equal(t, []float32{0, 1, 0, 1}, m[2])
	assert.Equal(t, []float32{1, 0, 0, 1}, m[3])
	assert.Equal(t, 4, Width(testEncoders(), Edge))
}

func TestEdgeIndex(t *testing.T) {
	coo, err := EdgeIndex(testGraph())
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 1, 0}, coo[0])
	assert.Equal(t, []int64{1, 0, 0, 2}, coo[1])

	g := testGraph()
	g.Edges = append(g.Edges, models.Edge{Source: "n0", Target: "ghost"})
	_, err = EdgeIndex(g)
	require.Error(t, err)
}

func TestEncodeConcat(t *testing.T) {
	first, err := Encode(testEncoders(), testGraph())
	require.NoError(t, err)
	second, err := Encode(testEncoders(), testGraph())
	require.NoError(t, err)

	both := first.Concat(second)
	assert.Len(t, both.X, 6)
	assert.Len(t, both.EdgeAttr, 8)
	assert.Equal(t, []int64{0, 2, 1, 0, 3, 5, 4, 3}, both.EdgeIndex[0])
	assert.Equal(t, []int64{0, 2, 1, 0}, first.EdgeIndex[0])
}
