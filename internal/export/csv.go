// Package export serialises the built graph into the fixed two-table CSV
// schema and reads those tables back for loader consumers.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/gebo/internal/graph"
	"github.com/starford/gebo/internal/models"
)

// Default output file names.
const (
	DefaultNodesFile = "nodes.csv"
	DefaultEdgesFile = "edges.csv"
)

// Multi-valued fields are flattened to single text cells. This is a lossy
// but documented flattening, not a nested encoding.
const (
	labelSep = ","
	tagSep   = ";"
)

var (
	nodeHeader = []string{"id", "title", "filepath", "labels", "tags"}
	edgeHeader = []string{"src_id", "dst_id", "type", "context_snippet"}
)

// Paths holds the written output file locations.
type Paths struct {
	Nodes string `json:"nodes_csv"`
	Edges string `json:"edges_csv"`
}

// Write serialises the graph into nodes/edges CSV files under dir, creating
// dir if needed. Fields containing the delimiter, quote character, or
// newline are quoted with embedded quotes doubled (encoding/csv handles the
// RFC 4180 rules).
func Write(g *graph.Graph, dir, nodesFile, edgesFile string) (Paths, error) {
	if nodesFile == "" {
		nodesFile = DefaultNodesFile
	}
	if edgesFile == "" {
		edgesFile = DefaultEdgesFile
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("export: create output dir: %w", err)
	}

	p := Paths{
		Nodes: filepath.Join(dir, nodesFile),
		Edges: filepath.Join(dir, edgesFile),
	}

	if err := writeTable(p.Nodes, nodeHeader, len(g.Nodes), func(i int) []string {
		n := g.Nodes[i]
		labels := strings.Join(n.Labels, labelSep)
		if labels == "" {
			labels = models.LabelDocument
		}
		return []string{n.ID, n.Title, n.Filepath, labels, strings.Join(n.Tags, tagSep)}
	}); err != nil {
		return Paths{}, err
	}

	if err := writeTable(p.Edges, edgeHeader, len(g.Edges), func(i int) []string {
		e := g.Edges[i]
		return []string{e.SrcID, e.DstID, e.Type, e.ContextSnippet}
	}); err != nil {
		return Paths{}, err
	}

	return p, nil
}

func writeTable(path string, header []string, rows int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for i := 0; i < rows; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: flush %s: %w", path, err)
	}
	return f.Close()
}
