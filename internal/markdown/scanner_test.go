package markdown

import (
	"strings"
	"testing"
)

func TestScanReferences_Basic(t *testing.T) {
	refs := ScanReferences("a.md", []string{"See [[Note B]] and [[Note C]]."})
	if len(refs) != 2 {
		t.Fatalf("len(refs) = %d, want 2", len(refs))
	}
	if refs[0].TargetTitle != "Note B" || refs[1].TargetTitle != "Note C" {
		t.Errorf("targets = %q, %q", refs[0].TargetTitle, refs[1].TargetTitle)
	}
	if refs[0].SourcePath != "a.md" {
		t.Errorf("source = %q", refs[0].SourcePath)
	}
}

func TestScanReferences_Alias(t *testing.T) {
	refs := ScanReferences("a.md", []string{"go [[Note B|the other note]] now"})
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want 1", len(refs))
	}
	if refs[0].TargetTitle != "Note B" {
		t.Errorf("target = %q, want display text stripped", refs[0].TargetTitle)
	}
}

func TestScanReferences_TrimmedTarget(t *testing.T) {
	refs := ScanReferences("a.md", []string{"[[  Padded Title  ]]"})
	if len(refs) != 1 || refs[0].TargetTitle != "Padded Title" {
		t.Errorf("refs = %+v, want one trimmed target", refs)
	}
}

func TestScanReferences_EmptyTargetSkipped(t *testing.T) {
	refs := ScanReferences("a.md", []string{"see [[ ]] and [[|alias]] and [[]]"})
	if len(refs) != 0 {
		t.Errorf("expected no refs, got %+v", refs)
	}
}

func TestScanReferences_EscapedBracketSkipped(t *testing.T) {
	refs := ScanReferences("a.md", []string{`literal \[[Not A Link]] here, but [[Real]] counts`})
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want 1", len(refs))
	}
	if refs[0].TargetTitle != "Real" {
		t.Errorf("target = %q", refs[0].TargetTitle)
	}
}

func TestScanReferences_ShortestMatch(t *testing.T) {
	// The first ]] closes the marker.
	refs := ScanReferences("a.md", []string{"[[A]] tail ]]"})
	if len(refs) != 1 || refs[0].TargetTitle != "A" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestSnippet_ShortSpanIsWhole(t *testing.T) {
	span := "alpha [[Beta]] gamma"
	refs := ScanReferences("a.md", []string{span})
	if len(refs) != 1 {
		t.Fatal("expected one ref")
	}
	if refs[0].ContextSnippet != span {
		t.Errorf("snippet = %q, want whole span", refs[0].ContextSnippet)
	}
}

func TestSnippet_LongSpanCapped(t *testing.T) {
	span := strings.Repeat("a", 200) + "[[Target]]" + strings.Repeat("b", 200)
	refs := ScanReferences("a.md", []string{span})
	if len(refs) != 1 {
		t.Fatal("expected one ref")
	}
	got := refs[0].ContextSnippet
	if len(got) > snippetMax {
		t.Errorf("snippet length = %d, want <= %d", len(got), snippetMax)
	}
	if !strings.Contains(got, "[[Target]]") {
		t.Errorf("snippet does not contain the marker: %q", got)
	}
}

func TestScanReferences_SourceOrderAcrossSpans(t *testing.T) {
	refs := ScanReferences("a.md", []string{"[[One]]", "[[Two]] then [[Three]]"})
	want := []string{"One", "Two", "Three"}
	if len(refs) != len(want) {
		t.Fatalf("len(refs) = %d, want %d", len(refs), len(want))
	}
	for i, w := range want {
		if refs[i].TargetTitle != w {
			t.Errorf("refs[%d] = %q, want %q", i, refs[i].TargetTitle, w)
		}
	}
}
