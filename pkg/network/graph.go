package network

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Edge is an interaction between two genes as read from an edge list.
// Direction is not significant.
type Edge struct {
	Source string
	Target string
}

// Graph is an immutable undirected simple graph over gene identifiers.
//
// The zero value is an empty graph; use [Build] to create a populated one.
type Graph struct {
	g     *simple.UndirectedGraph
	order []string         // node IDs in insertion order
	ids   map[string]int64 // gene -> gonum node ID
	edges []Edge           // unique edges in insertion order
}

// Build creates a graph from an edge list. See the package documentation
// for the normalization rules.
func Build(edges []Edge) *Graph {
	return BuildWithNodes(edges, nil)
}

// BuildWithNodes is like [Build] but also adds the given genes as nodes.
// Extra nodes are appended after all edge endpoints.
func BuildWithNodes(edges []Edge, nodes []string) *Graph {
	out := &Graph{
		g:   simple.NewUndirectedGraph(),
		ids: make(map[string]int64),
	}
	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		u := out.addNode(e.Source)
		v := out.addNode(e.Target)
		if u == v || out.g.HasEdgeBetween(u, v) {
			continue
		}
		out.g.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
		out.edges = append(out.edges, e)
	}
	for _, n := range nodes {
		if n != "" {
			out.addNode(n)
		}
	}
	return out
}

func (g *Graph) addNode(name string) int64 {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := int64(len(g.order))
	g.g.AddNode(simple.Node(id))
	g.ids[name] = id
	g.order = append(g.order, name)
	return id
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of unique undirected edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the gene identifiers in insertion order.
// The returned slice is a copy.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Edges returns the unique undirected edges in insertion order, each in
// the orientation it was first seen. The returned slice is a copy.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Has reports whether gene is a node of the graph.
func (g *Graph) Has(gene string) bool {
	_, ok := g.ids[gene]
	return ok
}

// Degree returns the number of neighbors of gene, or 0 if it is absent.
func (g *Graph) Degree(gene string) int {
	id, ok := g.ids[gene]
	if !ok {
		return 0
	}
	return g.g.From(id).Len()
}

// Neighbors returns the neighbors of gene in insertion order.
func (g *Graph) Neighbors(gene string) []string {
	id, ok := g.ids[gene]
	if !ok {
		return nil
	}
	nodes := graph.NodesOf(g.g.From(id))
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	slices.Sort(ids)

	out := make([]string, len(ids))
	for i, nid := range ids {
		out[i] = g.order[nid]
	}
	return out
}

// ID returns the gonum node ID for gene.
func (g *Graph) ID(gene string) (int64, bool) {
	id, ok := g.ids[gene]
	return id, ok
}

// Name returns the gene identifier for a gonum node ID.
func (g *Graph) Name(id int64) string {
	if id < 0 || id >= int64(len(g.order)) {
		return ""
	}
	return g.order[id]
}

// Undirected exposes the graph to gonum algorithms. Node IDs are dense
// in [0, NodeCount) and follow insertion order. Callers must not mutate it.
func (g *Graph) Undirected() graph.Undirected {
	if g.g == nil {
		return simple.NewUndirectedGraph()
	}
	return g.g
}
