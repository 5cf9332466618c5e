package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsgraph/internal/models"
)

func node(id, bb string) models.Node {
	return models.Node{ID: id, Attrs: models.Attributes{{Name: "bbID", Value: bb}}}
}

func edge(src, dst, flow string) models.Edge {
	return models.Edge{Source: src, Target: dst, Attrs: models.Attributes{{Name: "flowType", Value: flow}}}
}

func TestExtractNoControlEdges(t *testing.T) {
	g := &models.AttributeGraph{
		Nodes: []models.Node{node("a", "1"), node("b", "2"), node("c", "4")},
		Edges: []models.Edge{edge("a", "b", "data"), edge("b", "c", "memory")},
	}
	c, err := Extract(g)
	require.NoError(t, err)
	assert.Equal(t, 4, c.NumBBs)
	assert.Empty(t, c.EdgeIndex[0])
	assert.Empty(t, c.EdgeIndex[1])
	assert.Equal(t, []int64{0, 0, 0, 0}, c.BBBatch)
}

func TestExtractDeduplicatesReversePairs(t *testing.T) {
	// bbIDs are 1-based: blocks 2 and 5 become 1 and 4
	g := &models.AttributeGraph{
		Nodes: []models.Node{node("a", "2"), node("b", "5"), node("c", "5"), node("d", "2")},
		Edges: []models.Edge{
			edge("a", "b", "control"),
			edge("c", "d", "control"),
			edge("a", "c", "call"),
			edge("b", "c", "control"),
		},
	}
	c, err := Extract(g)
	require.NoError(t, err)
	assert.Equal(t, 5, c.NumBBs)
	assert.Equal(t, []int64{1, 4}, c.EdgeIndex[0])
	assert.Equal(t, []int64{4, 1}, c.EdgeIndex[1])
}

func TestExtractOrder(t *testing.T) {
	g := &models.AttributeGraph{
		Nodes: []models.Node{node("a", "1"), node("b", "2"), node("c", "3")},
		Edges: []models.Edge{
			edge("b", "c", "control"),
			edge("a", "b", "control"),
			edge("a", "c", "control"),
		},
	}
	c, err := Extract(g)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 0, 1, 0, 2}, c.EdgeIndex[0])
	assert.Equal(t, []int64{2, 1, 1, 0, 2, 0}, c.EdgeIndex[1])
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(&models.AttributeGraph{Nodes: []models.Node{{ID: "a"}}})
	require.Error(t, err)

	_, err = Extract(&models.AttributeGraph{Nodes: []models.Node{node("a", "x")}})
	require.Error(t, err)
}

func TestBasicBlockIDs(t *testing.T) {
	ids, err := BasicBlockIDs(&models.AttributeGraph{Nodes: []models.Node{node("a", "3"), node("b", "1")}})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0}, ids)
	assert.Equal(t, []int64{7, 5}, Offset(ids, 5))
}

func TestMerge(t *testing.T) {
	first := &CFG{NumBBs: 2, BBBatch: []int64{0, 0}}
	first.EdgeIndex = [2][]int64{{0, 1}, {1, 0}}
	second := &CFG{NumBBs: 3, BBBatch: []int64{0, 0, 0}}
	second.EdgeIndex = [2][]int64{{0, 2}, {2, 0}}

	merged := Merge(first, second)
	assert.Equal(t, 5, merged.NumBBs)
	assert.Equal(t, []int64{0, 1, 2, 4}, merged.EdgeIndex[0])
	assert.Equal(t, []int64{1, 0, 4, 2}, merged.EdgeIndex[1])
	assert.Len(t, merged.BBBatch, 5)
	assert.Equal(t, []int64{0, 1}, first.EdgeIndex[0], "inputs are not modified")
}
