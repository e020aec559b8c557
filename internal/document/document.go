package document

import "strings"

// Origin records where a document's bytes came from.
type Origin string

const (
	OriginUpload Origin = "upload"
	OriginURL    Origin = "url"
)

// Document is the text extracted from one submitted file or URL.
type Document struct {
	Title  string   // From metadata, filename or URL path
	Source string   // Filename or URL as submitted
	Origin Origin
	Pages  []string // Page (or section) texts in source order
}

// Text concatenates the pages in order. Pages are joined as-is; extractors
// decide their own separators.
func (d *Document) Text() string {
	if d == nil || len(d.Pages) == 0 {
		return ""
	}
	return strings.Join(d.Pages, "")
}

// IsEmpty reports whether the document has no text worth submitting.
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.Text()) == ""
}
