package parser

import (
	"strings"
	"testing"
)

func TestTrimPages_AcrossBlankPages(t *testing.T) {
	pages := []string{" \n\f", "\n  first line\n", "middle \n\n", "last\n  ", "\n\f "}
	trimPages(pages)

	want := []string{"", "first line\n", "middle \n\n", "last", ""}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("page %d = %q, want %q", i, pages[i], want[i])
		}
	}
	if got := strings.Join(pages, ""); got != strings.TrimSpace(" \n\f\n  first line\nmiddle \n\nlast\n  \n\f ") {
		t.Errorf("joined text %q does not match the trimmed document", got)
	}
}

func TestTrimPages_AllBlank(t *testing.T) {
	pages := []string{" ", "\n\n", "\f"}
	trimPages(pages)
	for i, p := range pages {
		if p != "" {
			t.Errorf("page %d = %q, want empty", i, p)
		}
	}
}

func TestTrimPages_Empty(t *testing.T) {
	trimPages(nil)
}

func TestPDFParser_RejectsGarbage(t *testing.T) {
	p := &PDFParser{}
	if _, err := p.Parse(strings.NewReader("not a pdf"), "x.pdf"); err == nil {
		t.Fatal("expected error for non-pdf input")
	}
}
