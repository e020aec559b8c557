// Package render turns a filtered transcript replay into messages ready for
// a client to display.
package render

import (
	"bytes"
	"iter"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Message is one displayable conversation entry.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Renderer converts Markdown message bodies to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GitHub-flavored Markdown enabled. Raw HTML in
// messages is escaped rather than passed through.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Messages drains a replay sequence into rendered messages. A body that
// fails to render keeps its plain text and an empty HTML field.
func (r *Renderer) Messages(replay iter.Seq2[string, string]) []Message {
	msgs := []Message{}
	for role, text := range replay {
		msgs = append(msgs, Message{Role: role, Text: text, HTML: r.HTML(text)})
	}
	return msgs
}

// HTML renders a single Markdown body.
func (r *Renderer) HTML(text string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return ""
	}
	return buf.String()
}
