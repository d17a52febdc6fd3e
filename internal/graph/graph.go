package graph

import "github.com/starford/gebo/internal/models"

// Graph is the immutable node/edge set produced by a build. Lookup helpers
// serve the read-only API and MCP surfaces; mutation never happens after
// construction.
type Graph struct {
	Nodes []models.Node
	Edges []models.Edge

	byID    map[string]int
	byTitle map[string]string
}

// NodeByID returns the node with the given identifier.
func (g *Graph) NodeByID(id string) (models.Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return models.Node{}, false
	}
	return g.Nodes[i], true
}

// NodeByTitle returns the node a reference to title resolves to.
func (g *Graph) NodeByTitle(title string) (models.Node, bool) {
	id, ok := g.byTitle[title]
	if !ok {
		return models.Node{}, false
	}
	return g.NodeByID(id)
}

// Backlinks returns the nodes that link to the node with the given title,
// in edge insertion order.
func (g *Graph) Backlinks(title string) []models.Node {
	target, ok := g.NodeByTitle(title)
	if !ok {
		return nil
	}
	var out []models.Node
	for _, e := range g.Edges {
		if e.DstID != target.ID {
			continue
		}
		if src, ok := g.NodeByID(e.SrcID); ok {
			out = append(out, src)
		}
	}
	return out
}

// Stats summarises the graph for logs and tooling.
type Stats struct {
	Nodes        int `json:"nodes"`
	Edges        int `json:"edges"`
	Placeholders int `json:"placeholders"`
}

// Stats counts nodes, edges, and placeholder nodes.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.Nodes), Edges: len(g.Edges)}
	for _, n := range g.Nodes {
		if n.Placeholder() {
			s.Placeholders++
		}
	}
	return s
}
