package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_TitleAndBlocks(t *testing.T) {
	input := `<html><head><title> Release  Notes </title><style>p{}</style></head>
<body>
<nav><p>Home | About</p></nav>
<h1>Version 2</h1>
<p>Faster   startup.</p>
<ul><li>Fixed crash</li><li>New flag</li></ul>
<script>var x = 1;</script>
<h2>Upgrade</h2>
<p>Run the <b>migrate</b> command.</p>
<footer><p>Copyright</p></footer>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Release Notes" {
		t.Errorf("expected title %q, got %q", "Release Notes", doc.Title)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %q", len(doc.Pages), doc.Pages)
	}

	want := "# Version 2\n\nFaster startup.\n\nFixed crash\n\nNew flag\n\n## Upgrade\n\nRun the migrate command."
	if got := doc.Text(); got != want {
		t.Errorf("text mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestHTMLParser_FallbackTitle(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader("<p>hello</p>"), "page.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "page" {
		t.Errorf("expected title %q, got %q", "page", doc.Title)
	}
	if doc.Text() != "hello" {
		t.Errorf("expected %q, got %q", "hello", doc.Text())
	}
}

func TestHTMLParser_ScriptOnlyIsEmpty(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader("<script>alert(1)</script>"), "x.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.IsEmpty() {
		t.Errorf("expected empty document, got %q", doc.Text())
	}
}
