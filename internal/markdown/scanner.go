package markdown

import (
	"regexp"
	"strings"

	"github.com/starford/gebo/internal/models"
)

// wikilinkRe matches the shortest non-empty marker: the first ]] after an
// opening [[ ends the token. Nested or overlapping markers are not supported.
var wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)

// snippetMax is the hard length cap for context snippets.
const snippetMax = 100

// ScanReferences scans the prose spans of one document for [[Target]] and
// [[Target|Display]] markers and returns the raw occurrences in source order.
// Markers with an empty target after trimming are silently skipped.
func ScanReferences(sourcePath string, spans []string) []models.ReferenceOccurrence {
	var out []models.ReferenceOccurrence
	for _, span := range spans {
		out = append(out, scanSpan(sourcePath, span)...)
	}
	return out
}

func scanSpan(sourcePath, span string) []models.ReferenceOccurrence {
	var out []models.ReferenceOccurrence
	for _, m := range wikilinkRe.FindAllStringSubmatchIndex(span, -1) {
		start, end := m[0], m[1]
		if start > 0 && span[start-1] == '\\' {
			continue // escaped bracket, not a marker
		}
		target := span[m[2]:m[3]]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		out = append(out, models.ReferenceOccurrence{
			SourcePath:     sourcePath,
			TargetTitle:    target,
			ContextSnippet: snippet(span, start, end),
		})
	}
	return out
}

// snippet returns up to snippetMax bytes centred on the marker at
// span[start:end], clipped at the span boundaries. No mid-character
// guarantees beyond the hard cap.
func snippet(span string, start, end int) string {
	pad := 0
	if markerLen := end - start; markerLen < snippetMax {
		pad = (snippetMax - markerLen) / 2
	}
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := lo + snippetMax
	if hi > len(span) {
		hi = len(span)
	}
	return strings.TrimSpace(span[lo:hi])
}
