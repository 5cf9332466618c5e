package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compilerOutput = `digraph "gemm" {
subgraph cluster_0 {
node0 [bbID="0" keyText="alloca" nodeType="instruction" ]
node1 [bbID="0" keyText="br" nodeType="instruction" ]
}
subgraph cluster_1 {
node2 [bbID="1" keyText="load" nodeType="instruction" ]
}
{rank=min; node0}
node3 [bbID="1" keyText="i32 4" nodeType="constant" ]
node0 -> node1[flowType="control" edgeOrder="0" ]
node1 -> node2[flowType="control" edgeOrder="0" ]
node3 -> node2[flowType="data" edgeOrder="1" ]
}
`

func TestParse(t *testing.T) {
	g, err := ParseString(compilerOutput)
	require.NoError(t, err)

	require.Len(t, g.Nodes, 4)
	assert.Equal(t, "node0", g.Nodes[0].ID)
	assert.Equal(t, "node3", g.Nodes[3].ID)

	key, ok := g.Nodes[3].Attrs.Get("keyText")
	require.True(t, ok)
	assert.Equal(t, "i32 4", key)

	bb, _ := g.Nodes[2].Attrs.Get("bbID")
	assert.Equal(t, "1", bb)

	require.Len(t, g.Edges, 3)
	assert.Equal(t, "node3", g.Edges[2].Source)
	assert.Equal(t, "node2", g.Edges[2].Target)
	flow, _ := g.Edges[0].Attrs.Get("flowType")
	assert.Equal(t, "control", flow)
}

func TestParseMergesRepeatedNodes(t *testing.T) {
	g, err := ParseString(`digraph {
a [x="1"]
b -> a
a [y="2" x="3"]
}`)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "a", g.Nodes[0].ID)
	assert.Equal(t, "b", g.Nodes[1].ID)

	x, _ := g.Nodes[0].Attrs.Get("x")
	y, _ := g.Nodes[0].Attrs.Get("y")
	assert.Equal(t, "3", x)
	assert.Equal(t, "2", y)
	assert.Empty(t, g.Nodes[1].Attrs)
}

func TestParseDefaults(t *testing.T) {
	g, err := ParseString(`digraph {
node [shape="box"]
edge [flowType="data"]
a -> b -> c
c [shape="circle"]
subgraph s { node [color="red"]; d }
e
}`)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 5)
	require.Len(t, g.Edges, 2)

	shape, _ := g.Nodes[0].Attrs.Get("shape")
	assert.Equal(t, "box", shape)
	shape, _ = g.Nodes[2].Attrs.Get("shape")
	assert.Equal(t, "circle", shape)

	color, ok := g.Nodes[3].Attrs.Get("color")
	assert.True(t, ok)
	assert.Equal(t, "red", color)
	_, ok = g.Nodes[4].Attrs.Get("color")
	assert.False(t, ok, "subgraph defaults must not leak")

	flow, _ := g.Edges[1].Attrs.Get("flowType")
	assert.Equal(t, "data", flow)
	assert.Equal(t, "b", g.Edges[1].Source)
	assert.Equal(t, "c", g.Edges[1].Target)
}

func TestParseSubgraphEndpoint(t *testing.T) {
	g, err := ParseString(`digraph { a -> {b c} }`)
	require.NoError(t, err)
	require.Len(t, g.Edges, 2)
	assert.Equal(t, "b", g.Edges[0].Target)
	assert.Equal(t, "c", g.Edges[1].Target)
}

func TestParseMalformed(t *testing.T) {
	_, err := ParseString(`digraph { a -> }`)
	require.Error(t, err)

	_, err = ParseString(``)
	require.Error(t, err)
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "node1", unquote("node1"))
	assert.Equal(t, "i32 4", unquote(`"i32 4"`))
	assert.Equal(t, `say "hi"`, unquote(`"say \"hi\""`))
	assert.Equal(t, `a\lb`, unquote(`"a\lb"`))
}
