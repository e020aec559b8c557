package parser

import (
	"strings"
	"testing"
)

func TestTextParser_PreservesContent(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\n\n  Second paragraph.  \n"
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if doc.Text() != input {
		t.Errorf("text not preserved: got %q", doc.Text())
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 0 {
		t.Errorf("expected no pages for empty input, got %d", len(doc.Pages))
	}
	if !doc.IsEmpty() {
		t.Error("expected empty document")
	}
}

func TestTextParser_WhitespaceOnlyIsEmpty(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(" \n\t\n"), "blank.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.IsEmpty() {
		t.Error("whitespace-only text should count as empty")
	}
}

func TestTextParser_RejectsBinary(t *testing.T) {
	p := &TextParser{}
	if _, err := p.Parse(strings.NewReader("ok\xff\xfe"), "bin.txt"); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.pdf", "*parser.PDFParser"},
		{"a.TXT", "*parser.TextParser"},
		{"a.csv", "*parser.TextParser"},
		{"a.md", "*parser.MarkdownParser"},
		{"a.markdown", "*parser.MarkdownParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.name, Options{})
		if err != nil {
			t.Fatalf("ForFile(%q): %v", tt.name, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}

	if _, err := ForFile("a.exe", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestForResource_FallsBackToContentType(t *testing.T) {
	p, err := ForResource("article", "text/html", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*HTMLParser); !ok {
		t.Errorf("expected HTMLParser, got %s", typeName(p))
	}

	p, err = ForResource("paper.pdf", "application/octet-stream", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pdf, ok := p.(*PDFParser)
	if !ok || !pdf.FallbackPdftotext {
		t.Errorf("expected PDFParser with fallback, got %#v", p)
	}

	if _, err := ForResource("blob", "application/octet-stream", Options{}); err == nil {
		t.Error("expected error for unknown resource")
	}
}

func TestSections_Concatenation(t *testing.T) {
	var s sections
	s.block("intro")
	s.heading(2, "Part")
	s.block("  body  ")
	s.block("")
	pages := s.finish()

	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %q", len(pages), pages)
	}
	if got := strings.Join(pages, ""); got != "intro\n\n## Part\n\nbody" {
		t.Errorf("unexpected text %q", got)
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *PDFParser:
		return "*parser.PDFParser"
	case *TextParser:
		return "*parser.TextParser"
	case *MarkdownParser:
		return "*parser.MarkdownParser"
	case *HTMLParser:
		return "*parser.HTMLParser"
	case *DOCXParser:
		return "*parser.DOCXParser"
	}
	return "unknown"
}
