package parser

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dgallion1/docchat/internal/document"
)

// TextParser passes plain text (and CSV) through unchanged.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8 text", filename)
	}

	doc := &document.Document{Title: titleFromFilename(filename), Source: filename}
	if len(data) > 0 {
		doc.Pages = []string{string(data)}
	}
	return doc, nil
}
