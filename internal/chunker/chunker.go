package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultSize is the chunk size, in runes, used when none is configured.
const DefaultSize = 30000

// Boundary selects where a chunk may end short of the size limit.
type Boundary string

const (
	BoundaryNone      Boundary = "none"      // Purely positional.
	BoundaryParagraph Boundary = "paragraph" // After the last "\n\n" in the window.
	BoundarySentence  Boundary = "sentence"  // After the last sentence end or paragraph break.
)

// ParseBoundary maps a config value to a Boundary. Empty means BoundaryNone.
func ParseBoundary(s string) (Boundary, error) {
	switch b := Boundary(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BoundaryNone:
		return BoundaryNone, nil
	case BoundaryParagraph, BoundarySentence:
		return b, nil
	default:
		return "", fmt.Errorf("unknown chunk boundary %q", s)
	}
}

// Config controls chunking behavior.
type Config struct {
	Size     int // Maximum chunk length in runes.
	Boundary Boundary
}

// DefaultConfig returns positional chunking at DefaultSize.
func DefaultConfig() Config {
	return Config{
		Size:     DefaultSize,
		Boundary: BoundaryNone,
	}
}

// Chunk partitions doc according to the config. Whatever the boundary mode,
// strings.Join(c.Chunk(doc), "") == doc.
func (c Config) Chunk(doc string) []string {
	size := c.Size
	if size <= 0 {
		size = DefaultSize
	}
	switch c.Boundary {
	case BoundaryParagraph, BoundarySentence:
		return splitAtBoundary(doc, size, c.Boundary)
	default:
		return Split(doc, size)
	}
}

// Split cuts doc into consecutive pieces of size runes; the last piece may be
// shorter. Cuts are positional and ignore words and sentences. An empty doc
// yields nil. size <= 0 falls back to DefaultSize.
func Split(doc string, size int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	if doc == "" {
		return nil
	}

	chunks := make([]string, 0, utf8.RuneCountInString(doc)/size+1)
	start, n := 0, 0
	for i := range doc {
		if n == size {
			chunks = append(chunks, doc[start:i])
			start, n = i, 0
		}
		n++
	}
	return append(chunks, doc[start:])
}

// splitAtBoundary is Split, except each cut moves back to the last boundary
// inside the window when there is one. Separators stay with the chunk before
// the cut.
func splitAtBoundary(doc string, size int, b Boundary) []string {
	var chunks []string
	start := 0
	for start < len(doc) {
		end := advance(doc, start, size)
		if end < len(doc) {
			if cut := lastBoundary(doc[start:end], b); cut > 0 {
				end = start + cut
			}
		}
		chunks = append(chunks, doc[start:end])
		start = end
	}
	return chunks
}

// advance returns the byte offset n runes after from.
func advance(s string, from, n int) int {
	i := from
	for ; n > 0 && i < len(s); n-- {
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return i
}

var sentenceEnds = []string{"\n\n", ". ", "! ", "? ", ".\n", "!\n", "?\n"}

// lastBoundary returns the offset just past the last boundary in window, or 0.
func lastBoundary(window string, b Boundary) int {
	seps := sentenceEnds[:1]
	if b == BoundarySentence {
		seps = sentenceEnds
	}
	best := 0
	for _, sep := range seps {
		if i := strings.LastIndex(window, sep); i >= 0 && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	return best
}
