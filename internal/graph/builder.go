// Package graph assembles the deduplicated node/edge graph from document
// records and reference occurrences.
package graph

import (
	"fmt"

	"github.com/starford/gebo/internal/apperr"
	"github.com/starford/gebo/internal/identity"
	"github.com/starford/gebo/internal/models"
)

type edgeKey struct {
	src, dst string
}

// Builder owns the in-progress node and edge collections for one run. It is
// not safe for concurrent use: the pipeline feeds it under a deterministic
// total order (documents sorted by path, occurrences in source order) so the
// first-occurrence-wins tie-break stays stable across runs.
type Builder struct {
	nodes     map[string]*models.Node
	nodeOrder []string
	byTitle   map[string]string // exact trimmed title -> node id
	byPath    map[string]string // document path -> node id
	edges     map[edgeKey]*models.Edge
	edgeOrder []edgeKey
}

// NewBuilder returns an empty builder. No state persists between runs.
func NewBuilder() *Builder {
	return &Builder{
		nodes:   make(map[string]*models.Node),
		byTitle: make(map[string]string),
		byPath:  make(map[string]string),
		edges:   make(map[edgeKey]*models.Edge),
	}
}

// AddDocument materialises the node for one document (phase 1). Two distinct
// documents cannot legitimately collide on an identifier; if they do, the
// determinism guarantee is broken and apperr.ErrInvariant is returned.
func (b *Builder) AddDocument(doc models.Document) error {
	id := identity.DocumentID(doc.Path, doc.Title)
	if existing, ok := b.nodes[id]; ok {
		return fmt.Errorf("%w: documents %q and %q share id %s",
			apperr.ErrInvariant, existing.Filepath, doc.Path, id)
	}

	labels := doc.Labels
	if len(labels) == 0 {
		labels = []string{models.LabelDocument}
	}
	b.nodes[id] = &models.Node{
		ID:       id,
		Title:    doc.Title,
		Filepath: doc.Path,
		Labels:   labels,
		Tags:     doc.Tags,
	}
	b.nodeOrder = append(b.nodeOrder, id)
	b.byPath[doc.Path] = id

	// Duplicate titles across files are legal; the first document in path
	// order wins reference resolution for that title.
	if _, ok := b.byTitle[doc.Title]; !ok {
		b.byTitle[doc.Title] = id
	}
	return nil
}

// AddReference resolves one occurrence and upserts the edge (phase 2).
// Call only after every document has been added. The source document must
// exist; the target resolves by exact title match or becomes a placeholder.
// Self-references are permitted and produce a self-loop edge.
func (b *Builder) AddReference(occ models.ReferenceOccurrence) error {
	srcID, ok := b.byPath[occ.SourcePath]
	if !ok {
		return fmt.Errorf("graph: reference from unknown document %q", occ.SourcePath)
	}

	key := edgeKey{src: srcID, dst: b.resolveTarget(occ.TargetTitle)}
	if _, ok := b.edges[key]; ok {
		// Repeated reference between the same ordered pair: keep the first
		// occurrence's snippet.
		return nil
	}
	b.edges[key] = &models.Edge{
		SrcID:          key.src,
		DstID:          key.dst,
		Type:           models.EdgeTypeLink,
		ContextSnippet: occ.ContextSnippet,
	}
	b.edgeOrder = append(b.edgeOrder, key)
	return nil
}

// resolveTarget maps a target title to a node id. Title-based exact matching
// is the sole resolution mechanism: no path-based or fuzzy matching. A title
// with no matching node creates a placeholder keyed purely by the title.
func (b *Builder) resolveTarget(title string) string {
	if id, ok := b.byTitle[title]; ok {
		return id
	}
	id := identity.TargetID(title)
	b.nodes[id] = &models.Node{
		ID:     id,
		Title:  title,
		Labels: []string{models.LabelDocument},
	}
	b.nodeOrder = append(b.nodeOrder, id)
	b.byTitle[title] = id
	return id
}

// Graph snapshots the builder's collections in insertion order. The result
// is the sole artifact handed to exporters and consumers; the builder can be
// discarded afterwards.
func (b *Builder) Graph() *Graph {
	g := &Graph{
		Nodes:   make([]models.Node, 0, len(b.nodeOrder)),
		Edges:   make([]models.Edge, 0, len(b.edgeOrder)),
		byID:    make(map[string]int, len(b.nodeOrder)),
		byTitle: make(map[string]string, len(b.byTitle)),
	}
	for i, id := range b.nodeOrder {
		g.Nodes = append(g.Nodes, *b.nodes[id])
		g.byID[id] = i
	}
	for _, key := range b.edgeOrder {
		g.Edges = append(g.Edges, *b.edges[key])
	}
	for title, id := range b.byTitle {
		g.byTitle[title] = id
	}
	return g
}
