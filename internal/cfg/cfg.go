// Package cfg derives the basic block control flow graph from a compiler graph.
package cfg

import (
	"strconv"

	"github.com/pkg/errors"

	"hlsgraph/internal/models"
)

const (
	bbAttribute   = "bbID"
	flowAttribute = "flowType"
)

// flow types that connect basic blocks
var controlFlows = map[string]bool{
	"control": true,
	"call":    true,
}

// CFG is the undirected basic block graph of one compiler graph
type CFG struct {
	// EdgeIndex lists every basic block edge in both directions
	EdgeIndex [2][]int64
	NumBBs    int
	// BBBatch is all zero; batching code offsets it when graphs are concatenated
	BBBatch []int64
}

// BasicBlockIDs returns the 0-based basic block of every node, in node order.
// The compiler numbers basic blocks from 1.
func BasicBlockIDs(g *models.AttributeGraph) ([]int64, error) {
	ids := make([]int64, len(g.Nodes))
	for i, node := range g.Nodes {
		raw, ok := node.Attrs.Get(bbAttribute)
		if !ok {
			return nil, errors.Errorf("node %s has no %s", node.ID, bbAttribute)
		}
		bb, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Errorf("node %s has non-integer %s %q", node.ID, bbAttribute, raw)
		}
		ids[i] = bb - 1
	}
	return ids, nil
}

// Extract builds the CFG. Control and call edges between distinct basic blocks
// are registered once per unordered pair, in the direction first seen, and
// emitted as a forward/backward pair.
func Extract(g *models.AttributeGraph) (*CFG, error) {
	ids, err := BasicBlockIDs(g)
	if err != nil {
		return nil, err
	}

	numBBs := 0
	nodeBB := make(map[string]int64, len(g.Nodes))
	for i, node := range g.Nodes {
		nodeBB[node.ID] = ids[i]
		if int(ids[i])+1 > numBBs {
			numBBs = int(ids[i]) + 1
		}
	}

	adj := newAdjacency()
	for _, edge := range g.Edges {
		flow, _ := edge.Attrs.Get(flowAttribute)
		if !controlFlows[flow] {
			continue
		}
		src, ok := nodeBB[edge.Source]
		if !ok {
			return nil, errors.Errorf("edge source %s is not a node", edge.Source)
		}
		dst, ok := nodeBB[edge.Target]
		if !ok {
			return nil, errors.Errorf("edge target %s is not a node", edge.Target)
		}
		if src != dst && !adj.has(dst, src) {
			adj.add(src, dst)
		}
	}

	c := &CFG{
		NumBBs:  numBBs,
		BBBatch: make([]int64, numBBs),
	}
	c.EdgeIndex[0] = []int64{}
	c.EdgeIndex[1] = []int64{}
	adj.each(func(src, dst int64) {
		c.EdgeIndex[0] = append(c.EdgeIndex[0], src, dst)
		c.EdgeIndex[1] = append(c.EdgeIndex[1], dst, src)
	})
	return c, nil
}

// adjacency is an insertion ordered set of directed pairs
type adjacency struct {
	sources []int64
	targets map[int64][]int64
	seen    map[[2]int64]bool
}

func newAdjacency() *adjacency {
	return &adjacency{
		targets: make(map[int64][]int64),
		seen:    make(map[[2]int64]bool),
	}
}

func (a *adjacency) has(src, dst int64) bool {
	return a.seen[[2]int64{src, dst}]
}

func (a *adjacency) add(src, dst int64) {
	if a.has(src, dst) {
		return
	}
	a.seen[[2]int64{src, dst}] = true
	if _, ok := a.targets[src]; !ok {
		a.sources = append(a.sources, src)
	}
	a.targets[src] = append(a.targets[src], dst)
}

func (a *adjacency) each(fn func(src, dst int64)) {
	for _, src := range a.sources {
		for _, dst := range a.targets[src] {
			fn(src, dst)
		}
	}
}

// Merge concatenates the CFG of a second graph whose basic blocks were offset
// by first.NumBBs. The second graph's BBBatch entries keep their value.
func Merge(first, second *CFG) *CFG {
	offset := int64(first.NumBBs)
	merged := &CFG{NumBBs: first.NumBBs + second.NumBBs}
	for row := 0; row < 2; row++ {
		merged.EdgeIndex[row] = append([]int64{}, first.EdgeIndex[row]...)
		for _, bb := range second.EdgeIndex[row] {
			merged.EdgeIndex[row] = append(merged.EdgeIndex[row], bb+offset)
		}
	}
	merged.BBBatch = append(append([]int64{}, first.BBBatch...), second.BBBatch...)
	return merged
}

// Offset adds delta to every basic block id
func Offset(ids []int64, delta int64) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = id + delta
	}
	return out
}
