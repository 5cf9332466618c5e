package encoding

import (
	"github.com/pkg/errors"

	"hlsgraph/internal/models"
)

// forward and backward copies of every edge are told apart by two trailing columns
const directionWidth = 2

func row(encoders []Encoder, target Target, attrs models.Attributes, object string) ([]float32, error) {
	var features []float32
	for _, e := range encoders {
		if e.Target != target {
			continue
		}
		raw, ok := attrs.Get(e.Label)
		if !ok {
			return nil, &EncodingError{Label: e.Label, Object: object, Reason: "missing attribute"}
		}
		encoded, err := e.Encode(raw)
		if err != nil {
			var encErr *EncodingError
			if errors.As(err, &encErr) {
				encErr.Object = object
			}
			return nil, err
		}
		features = append(features, encoded...)
	}
	return features, nil
}

// NodeMatrix encodes every node, one row per node in graph order
func NodeMatrix(encoders []Encoder, nodes []models.Node) ([][]float32, error) {
	matrix := make([][]float32, len(nodes))
	for i, node := range nodes {
		r, err := row(encoders, Node, node.Attrs, "node "+node.ID)
		if err != nil {
			return nil, err
		}
		matrix[i] = r
	}
	return matrix, nil
}

// EdgeMatrix encodes every edge twice: rows [0, E) are the forward copies
// suffixed with [1, 0], rows [E, 2E) the backward copies suffixed with [0, 1].
func EdgeMatrix(encoders []Encoder, edges []models.Edge) ([][]float32, error) {
	n := len(edges)
	matrix := make([][]float32, 2*n)
	for i, edge := range edges {
		r, err := row(encoders, Edge, edge.Attrs, "edge "+edge.Source+"->"+edge.Target)
		if err != nil {
			return nil, err
		}
		forward := make([]float32, len(r), len(r)+directionWidth)
		copy(forward, r)
		backward := make([]float32, len(r), len(r)+directionWidth)
		copy(backward, r)
		matrix[i] = append(forward, 1, 0)
		matrix[n+i] = append(backward, 0, 1)
	}
	return matrix, nil
}

// EdgeIndex converts edges to node positions: row 0 holds sources then
// targets, row 1 targets then sources, matching the EdgeMatrix row order.
func EdgeIndex(g *models.AttributeGraph) ([2][]int64, error) {
	index := g.NodeIndex()
	n := len(g.Edges)
	var coo [2][]int64
	coo[0] = make([]int64, 2*n)
	coo[1] = make([]int64, 2*n)
	for i, edge := range g.Edges {
		src, ok := index[edge.Source]
		if !ok {
			return coo, errors.Errorf("edge source %s is not a node", edge.Source)
		}
		dst, ok := index[edge.Target]
		if !ok {
			return coo, errors.Errorf("edge target %s is not a node", edge.Target)
		}
		coo[0][i], coo[0][n+i] = int64(src), int64(dst)
		coo[1][i], coo[1][n+i] = int64(dst), int64(src)
	}
	return coo, nil
}

// Graph is the encoded form of one attribute graph
type Graph struct {
	X         [][]float32
	EdgeIndex [2][]int64
	EdgeAttr  [][]float32
}

// Encode runs NodeMatrix, EdgeIndex and EdgeMatrix over g
func Encode(encoders []Encoder, g *models.AttributeGraph) (*Graph, error) {
	x, err := NodeMatrix(encoders, g.Nodes)
	if err != nil {
		return nil, err
	}
	edgeIndex, err := EdgeIndex(g)
	if err != nil {
		return nil, err
	}
	edgeAttr, err := EdgeMatrix(encoders, g.Edges)
	if err != nil {
		return nil, err
	}
	return &Graph{X: x, EdgeIndex: edgeIndex, EdgeAttr: edgeAttr}, nil
}

// Concat appends other after g, offsetting other's node positions
func (g *Graph) Concat(other *Graph) *Graph {
	offset := int64(len(g.X))
	out := &Graph{
		X:        append(append([][]float32{}, g.X...), other.X...),
		EdgeAttr: append(append([][]float32{}, g.EdgeAttr...), other.EdgeAttr...),
	}
	for r := 0; r < 2; r++ {
		out.EdgeIndex[r] = append([]int64{}, g.EdgeIndex[r]...)
		for _, v := range other.EdgeIndex[r] {
			out.EdgeIndex[r] = append(out.EdgeIndex[r], v+offset)
		}
	}
	return out
}
