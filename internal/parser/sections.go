package parser

import "strings"

// sections accumulates block texts into pages, opening a new page at every
// heading. Headings are rendered in Markdown form so the model still sees
// the document outline.
type sections struct {
	pages   []string
	current strings.Builder
}

func (s *sections) heading(level int, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	s.flush()
	if level < 1 {
		level = 1
	}
	s.current.WriteString(strings.Repeat("#", level))
	s.current.WriteByte(' ')
	s.current.WriteString(title)
}

func (s *sections) block(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if s.current.Len() > 0 {
		s.current.WriteString("\n\n")
	}
	s.current.WriteString(text)
}

func (s *sections) flush() {
	if s.current.Len() == 0 {
		return
	}
	s.pages = append(s.pages, s.current.String())
	s.current.Reset()
}

// finish returns the pages, each but the last carrying the blank line that
// separates it from its successor so that concatenation reads naturally.
func (s *sections) finish() []string {
	s.flush()
	for i := 0; i < len(s.pages)-1; i++ {
		s.pages[i] += "\n\n"
	}
	return s.pages
}
