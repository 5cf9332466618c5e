// internal/parsers/graph/parser.go
package graph

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/formats/dot"
	"gonum.org/v1/gonum/graph/formats/dot/ast"

	"hlsgraph/internal/models"
)

// Parser converts the DOT text printed by the graph compiler into an AttributeGraph.
// Node order is the order of first appearance, including nodes that are only
// mentioned by an edge or a rank subgraph.
type Parser struct {
	reader io.Reader

	graph *models.AttributeGraph
	index map[string]int
}

// scope holds the default attribute statements in effect for a (sub)graph
type scope struct {
	nodeDefaults models.Attributes
	edgeDefaults models.Attributes
}

func (s scope) child() scope {
	return scope{
		nodeDefaults: append(models.Attributes(nil), s.nodeDefaults...),
		edgeDefaults: append(models.Attributes(nil), s.edgeDefaults...),
	}
}

func NewParser(reader io.Reader) *Parser {
	return &Parser{reader: reader}
}

// Parse reads the whole input and returns the first graph it declares
func (p *Parser) Parse() (*models.AttributeGraph, error) {
	file, err := dot.Parse(p.reader)
	if err != nil {
		return nil, errors.Wrap(err, "malformed graph text")
	}
	if len(file.Graphs) == 0 {
		return nil, errors.New("graph text declares no graph")
	}

	p.graph = &models.AttributeGraph{}
	p.index = make(map[string]int)
	if _, err := p.statements(file.Graphs[0].Stmts, scope{}); err != nil {
		return nil, err
	}
	return p.graph, nil
}

// ParseString is a convenience wrapper around Parser for in-memory text
func ParseString(src string) (*models.AttributeGraph, error) {
	return NewParser(strings.NewReader(src)).Parse()
}

// statements walks stmts and returns the ids of every node they mention
func (p *Parser) statements(stmts []ast.Stmt, sc scope) ([]string, error) {
	var mentioned []string
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.NodeStmt:
			id := p.node(s.Node.ID, sc)
			for _, attr := range s.Attrs {
				p.graph.Nodes[p.index[id]].Attrs.Set(unquote(attr.Key), unquote(attr.Val))
			}
			mentioned = append(mentioned, id)

		case *ast.EdgeStmt:
			ids, err := p.edge(s, sc)
			if err != nil {
				return nil, err
			}
			mentioned = append(mentioned, ids...)

		case *ast.AttrStmt:
			switch s.Kind {
			case ast.NodeKind:
				for _, attr := range s.Attrs {
					sc.nodeDefaults.Set(unquote(attr.Key), unquote(attr.Val))
				}
			case ast.EdgeKind:
				for _, attr := range s.Attrs {
					sc.edgeDefaults.Set(unquote(attr.Key), unquote(attr.Val))
				}
			}

		case *ast.Subgraph:
			ids, err := p.statements(s.Stmts, sc.child())
			if err != nil {
				return nil, err
			}
			mentioned = append(mentioned, ids...)

		case *ast.Attr:
			// graph level attribute (rank, label, ...)
		}
	}
	return mentioned, nil
}

// node returns the unquoted id, registering the node on first sight
func (p *Parser) node(rawID string, sc scope) string {
	id := unquote(rawID)
	if _, exists := p.index[id]; !exists {
		p.index[id] = len(p.graph.Nodes)
		p.graph.Nodes = append(p.graph.Nodes, models.Node{
			ID:    id,
			Attrs: append(models.Attributes(nil), sc.nodeDefaults...),
		})
	}
	return id
}

func (p *Parser) vertex(v ast.Vertex, sc scope) ([]string, error) {
	switch v := v.(type) {
	case *ast.Node:
		return []string{p.node(v.ID, sc)}, nil
	case *ast.Subgraph:
		return p.statements(v.Stmts, sc.child())
	}
	return nil, errors.Errorf("unsupported edge endpoint %T", v)
}

func (p *Parser) edge(s *ast.EdgeStmt, sc scope) ([]string, error) {
	from, err := p.vertex(s.From, sc)
	if err != nil {
		return nil, err
	}
	mentioned := append([]string(nil), from...)

	for to := s.To; to != nil; to = to.To {
		targets, err := p.vertex(to.Vertex, sc)
		if err != nil {
			return nil, err
		}
		for _, src := range from {
			for _, dst := range targets {
				attrs := append(models.Attributes(nil), sc.edgeDefaults...)
				for _, attr := range s.Attrs {
					attrs.Set(unquote(attr.Key), unquote(attr.Val))
				}
				p.graph.Edges = append(p.graph.Edges, models.Edge{Source: src, Target: dst, Attrs: attrs})
			}
		}
		mentioned = append(mentioned, targets...)
		from = targets
	}
	return mentioned, nil
}

// unquote removes DOT string quoting; escapes Go does not know are kept as written
func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}
	return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
}
