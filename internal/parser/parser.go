package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
)

// Parser extracts ordered page texts from raw document bytes.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".csv":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// Options tune individual parsers.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".txt", ".csv":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// ForContentType picks a parser from a media type, as sent by a remote server.
func ForContentType(contentType string, opts Options) (Parser, error) {
	switch strings.ToLower(contentType) {
	case "application/pdf", "application/x-pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case "text/plain", "text/csv":
		return &TextParser{}, nil
	case "text/markdown", "text/x-markdown":
		return &MarkdownParser{}, nil
	case "text/html", "application/xhtml+xml":
		return &HTMLParser{}, nil
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported content type: %q", contentType)
	}
}

// ForResource prefers the filename extension and falls back to the media type.
func ForResource(filename, contentType string, opts Options) (Parser, error) {
	if IsSupportedExtension(filename) {
		return ForFile(filename, opts)
	}
	return ForContentType(contentType, opts)
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func titleFromFilename(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
