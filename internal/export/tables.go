package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/gebo/internal/models"
)

// Tables is the parsed tabular artifact handed to loader consumers.
type Tables struct {
	Nodes []models.Node
	Edges []models.Edge
}

// ReadTables loads nodes/edges CSV files from dir and validates the fixed
// column sets and referential integrity (every edge endpoint must appear in
// the node table). Violations are input errors: the tables were produced or
// edited outside this run.
func ReadTables(dir string) (*Tables, error) {
	nodeRows, err := readTable(filepath.Join(dir, DefaultNodesFile), nodeHeader)
	if err != nil {
		return nil, err
	}
	edgeRows, err := readTable(filepath.Join(dir, DefaultEdgesFile), edgeHeader)
	if err != nil {
		return nil, err
	}

	t := &Tables{
		Nodes: make([]models.Node, 0, len(nodeRows)),
		Edges: make([]models.Edge, 0, len(edgeRows)),
	}
	ids := make(map[string]struct{}, len(nodeRows))
	for _, r := range nodeRows {
		n := models.Node{
			ID:       r[0],
			Title:    r[1],
			Filepath: r[2],
			Labels:   splitList(r[3], labelSep),
			Tags:     splitList(r[4], tagSep),
		}
		ids[n.ID] = struct{}{}
		t.Nodes = append(t.Nodes, n)
	}
	for _, r := range edgeRows {
		e := models.Edge{SrcID: r[0], DstID: r[1], Type: r[2], ContextSnippet: r[3]}
		if _, ok := ids[e.SrcID]; !ok {
			return nil, fmt.Errorf("export: edge src_id %s missing from nodes table", e.SrcID)
		}
		if _, ok := ids[e.DstID]; !ok {
			return nil, fmt.Errorf("export: edge dst_id %s missing from nodes table", e.DstID)
		}
		t.Edges = append(t.Edges, e)
	}
	return t, nil
}

func readTable(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("export: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("export: %s: missing header row", path)
	}
	for i, col := range header {
		if records[0][i] != col {
			return nil, fmt.Errorf("export: %s: unexpected header %q, want %q", path, records[0][i], col)
		}
	}
	return records[1:], nil
}

func splitList(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}
