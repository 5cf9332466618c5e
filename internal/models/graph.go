// internal/models/graph.go

package models

// Attribute is a single name/value pair as printed by the graph compiler.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attributes keeps attributes in the order they were first declared.
type Attributes []Attribute

// Get returns the value of the named attribute
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Set overwrites an existing attribute or appends a new one
func (a *Attributes) Set(name, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Name: name, Value: value})
}

// Node is a graph compiler node (instruction, variable, constant or pragma)
type Node struct {
	ID    string     `json:"id"`
	Attrs Attributes `json:"attrs"`
}

// Edge is a directed graph compiler edge
type Edge struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	Attrs  Attributes `json:"attrs"`
}

// AttributeGraph is the in-memory form of one graph compiler invocation.
// It is not modified after ingestion.
type AttributeGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeIndex maps every node id to its position in Nodes
func (g *AttributeGraph) NodeIndex() map[string]int {
	index := make(map[string]int, len(g.Nodes))
	for i, node := range g.Nodes {
		index[node.ID] = i
	}
	return index
}
