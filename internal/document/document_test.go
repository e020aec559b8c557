package document

import "testing"

func TestDocument_TextConcatenatesPagesInOrder(t *testing.T) {
	d := &Document{Pages: []string{"page one. ", "page two. ", "page three."}}
	want := "page one. page two. page three."
	if got := d.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDocument_EmptyWhenNoPages(t *testing.T) {
	d := &Document{Title: "scan"}
	if d.Text() != "" {
		t.Errorf("expected empty text, got %q", d.Text())
	}
	if !d.IsEmpty() {
		t.Error("expected document with no pages to be empty")
	}
}

func TestDocument_WhitespaceOnlyIsEmpty(t *testing.T) {
	d := &Document{Pages: []string{"  \n", "\t"}}
	if !d.IsEmpty() {
		t.Error("expected whitespace-only document to be empty")
	}
}

func TestDocument_NilIsEmpty(t *testing.T) {
	var d *Document
	if !d.IsEmpty() {
		t.Error("expected nil document to be empty")
	}
}
