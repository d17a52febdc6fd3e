// Package models defines the domain types for Gebo.
package models

// EdgeTypeLink is the relationship type assigned to every wikilink edge.
const EdgeTypeLink = "LINK"

// LabelDocument is the default label carried by every node, including
// placeholders created for unresolved reference targets.
const LabelDocument = "Document"

// Document represents one parsed Markdown file in the vault.
type Document struct {
	// Path is the file path relative to the vault root, unique per scan.
	Path string `json:"path"`
	// Title is the first H1 heading, or the filename stem when no heading exists.
	// Never empty.
	Title string `json:"title"`
	// Tags come from the frontmatter "tags" key. Order is preserved for output
	// but plays no part in identity.
	Tags []string `json:"tags,omitempty"`
	// Labels defaults to {"Document"}.
	Labels []string `json:"labels,omitempty"`
}

// ReferenceOccurrence is one raw [[...]] marker found in a document's prose.
// Occurrences are consumed once by the graph builder and not retained.
type ReferenceOccurrence struct {
	SourcePath     string `json:"source_path"`
	TargetTitle    string `json:"target_title"`
	ContextSnippet string `json:"context_snippet"`
}

// Node is a graph vertex, one per distinct identity.
// A node with an empty Filepath is a placeholder: it was referenced by title
// but has no backing document in the vault.
type Node struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Filepath string   `json:"filepath"`
	Labels   []string `json:"labels"`
	Tags     []string `json:"tags"`
}

// Placeholder reports whether the node has no backing document.
func (n Node) Placeholder() bool { return n.Filepath == "" }

// Edge is a directed arc between two nodes. The (SrcID, DstID) pair is unique
// in a built graph; repeated references collapse to one edge keeping the
// first occurrence's context snippet.
type Edge struct {
	SrcID          string `json:"src_id"`
	DstID          string `json:"dst_id"`
	Type           string `json:"type"`
	ContextSnippet string `json:"context_snippet"`
}

// FileMeta is a lightweight listing entry returned by storage providers.
type FileMeta struct {
	Path string `json:"path"`
}
