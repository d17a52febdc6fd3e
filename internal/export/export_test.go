package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/gebo/internal/graph"
	"github.com/starford/gebo/internal/models"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	if err := b.AddDocument(models.Document{
		Path:  "a.md",
		Title: `Title, with "quotes"`,
		Tags:  []string{"one", "two"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddDocument(models.Document{Path: "b.md", Title: "B"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddReference(models.ReferenceOccurrence{
		SourcePath:     "a.md",
		TargetTitle:    "B",
		ContextSnippet: "multi\nline, snippet",
	}); err != nil {
		t.Fatal(err)
	}
	return b.Graph()
}

func TestWrite_HeadersAndRows(t *testing.T) {
	dir := t.TempDir()
	p, err := Write(testGraph(t), dir, "", "")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(p.Nodes) != DefaultNodesFile || filepath.Base(p.Edges) != DefaultEdgesFile {
		t.Errorf("paths = %+v", p)
	}

	f, err := os.Open(p.Nodes)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("nodes.csv not valid CSV: %v", err)
	}
	if got := strings.Join(records[0], ","); got != "id,title,filepath,labels,tags" {
		t.Errorf("node header = %q", got)
	}
	if len(records) != 3 {
		t.Fatalf("node rows = %d, want header + 2", len(records))
	}
	// Embedded comma and quotes survive the round trip.
	if records[1][1] != `Title, with "quotes"` {
		t.Errorf("title = %q", records[1][1])
	}
	if records[1][4] != "one;two" {
		t.Errorf("tags cell = %q, want semicolon-joined", records[1][4])
	}
	if records[1][3] != "Document" {
		t.Errorf("labels cell = %q", records[1][3])
	}
}

func TestWrite_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := Write(testGraph(t), dir, "", ""); err != nil {
		t.Fatalf("Write into missing dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultNodesFile)); err != nil {
		t.Errorf("nodes file missing: %v", err)
	}
}

func TestReadTables_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := testGraph(t)
	if _, err := Write(g, dir, "", ""); err != nil {
		t.Fatal(err)
	}

	tables, err := ReadTables(dir)
	if err != nil {
		t.Fatalf("ReadTables: %v", err)
	}
	if len(tables.Nodes) != 2 || len(tables.Edges) != 1 {
		t.Fatalf("tables = %d nodes, %d edges", len(tables.Nodes), len(tables.Edges))
	}
	if tables.Nodes[0].Title != g.Nodes[0].Title {
		t.Errorf("title = %q, want %q", tables.Nodes[0].Title, g.Nodes[0].Title)
	}
	if len(tables.Nodes[0].Tags) != 2 || tables.Nodes[0].Tags[1] != "two" {
		t.Errorf("tags = %v", tables.Nodes[0].Tags)
	}
	if tables.Edges[0].ContextSnippet != "multi\nline, snippet" {
		t.Errorf("snippet = %q", tables.Edges[0].ContextSnippet)
	}
}

func TestReadTables_ReferentialIntegrity(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(testGraph(t), dir, "", ""); err != nil {
		t.Fatal(err)
	}
	// Point an edge at an id absent from the node table.
	edgesCSV := "src_id,dst_id,type,context_snippet\nunknown1,unknown2,LINK,\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultEdgesFile), []byte(edgesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTables(dir); err == nil {
		t.Error("expected referential integrity error")
	}
}

func TestReadTables_BadHeader(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(testGraph(t), dir, "", ""); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, DefaultNodesFile),
		[]byte("wrong,header,row,here,now\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTables(dir); err == nil {
		t.Error("expected header validation error")
	}
}

func TestReadTables_MissingFile(t *testing.T) {
	if _, err := ReadTables(t.TempDir()); err == nil {
		t.Error("expected error for missing tables")
	}
}
