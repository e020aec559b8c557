package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser extracts one text per page. It tries the Go library first,
// then falls back to pdftotext if enabled and available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	pages, err := extractPDFPages(data)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	trimPages(pages)

	return &document.Document{
		Title:  titleFromFilename(filename),
		Source: filename,
		Pages:  pages,
	}, nil
}

func extractPDFPages(data []byte) (pages []string, err error) {
	// The library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPdftotext(data []byte) ([]string, error) {
	// pdftotext reads from a path, so spill to a temp file.
	tmp, err := os.CreateTemp("", "docchat-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmpPath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	pages := strings.Split(string(out), "\f")
	if len(pages) > 0 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}

const pdfSpace = " \t\r\n\f"

// trimPages trims the document as a whole: leading whitespace up to the first
// non-blank page and trailing whitespace back to the last one. Page text in
// between is left untouched.
func trimPages(pages []string) {
	for i := range pages {
		pages[i] = strings.TrimLeft(pages[i], pdfSpace)
		if pages[i] != "" {
			break
		}
	}
	for i := len(pages) - 1; i >= 0; i-- {
		pages[i] = strings.TrimRight(pages[i], pdfSpace)
		if pages[i] != "" {
			break
		}
	}
}
