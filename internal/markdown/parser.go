// Package markdown turns raw Markdown bytes into the document model: the
// canonical title, frontmatter tags, and the prose text spans that are
// scanned for wikilink reference markers.
package markdown

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/starford/gebo/internal/models"
)

// ParsedDoc holds the output of parsing one Markdown file.
type ParsedDoc struct {
	// Heading is the text of the first H1 in document order, empty when the
	// document has none.
	Heading string
	// Tags from the frontmatter "tags" key (sequence of strings, or a
	// comma-separated string).
	Tags []string
	// Meta is the full frontmatter map. Unknown keys are preserved here and
	// otherwise ignored.
	Meta map[string]any
	// Spans is the prose text of each block in document order. Code spans,
	// code blocks, and raw HTML are excluded, so reference scanning never
	// sees literal bracket syntax inside code.
	Spans []string
}

// Parse extracts frontmatter and block structure from raw Markdown bytes.
// Malformed frontmatter degrades to "no metadata" rather than failing: the
// whole content is treated as body, matching the rule that a single bad
// file must not block the corpus.
func Parse(data []byte) (*ParsedDoc, error) {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		meta = nil
		body = data
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(body))

	pd := &ParsedDoc{
		Tags: extractTags(meta),
		Meta: meta,
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch b := n.(type) {
		case *ast.Heading:
			span := inlineText(b, body)
			if b.Level == 1 && pd.Heading == "" {
				pd.Heading = strings.TrimSpace(span)
			}
			pd.appendSpan(span)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			pd.appendSpan(inlineText(n, body))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return pd, nil
}

func (pd *ParsedDoc) appendSpan(s string) {
	if s != "" {
		pd.Spans = append(pd.Spans, s)
	}
}

// ExtractDocument derives the Document record for a parsed file. The title
// falls back to the filename stem, so it is never empty.
func ExtractDocument(path string, pd *ParsedDoc) models.Document {
	title := pd.Heading
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return models.Document{
		Path:   path,
		Title:  title,
		Tags:   pd.Tags,
		Labels: []string{models.LabelDocument},
	}
}

// inlineText collects the prose text under a block node, skipping code spans.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.CodeSpan:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// extractTags coerces the frontmatter "tags" value: a sequence of strings or
// a single comma-separated string. Anything else yields no tags.
func extractTags(meta map[string]any) []string {
	if meta == nil {
		return nil
	}
	raw, ok := meta["tags"]
	if !ok {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	}
	return out
}
