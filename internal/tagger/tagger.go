// Package tagger marks document-derived chat turns as hidden by prefixing a
// fixed sentinel, and recognises that sentinel when filtering a transcript.
//
// Detection is a plain prefix comparison. A user message that happens to begin
// with the sentinel bytes is indistinguishable from a tagged unit and will be
// hidden; this is a known limitation of sentinel sniffing and is not
// special-cased. Turn records carry an explicit visibility flag for callers
// that do not need sentinel compatibility.
package tagger

import (
	"fmt"
	"strings"
)

// DefaultSentinel is an HTML comment, so a Markdown renderer that is handed a
// tagged unit by mistake still shows nothing.
const DefaultSentinel = "<!--hidden-->"

// Mode selects how a document's chunks become submission units.
type Mode string

const (
	// ModePrefixChunks sends one unit per chunk. Each hidden unit carries the
	// sentinel on the wire as well as in storage.
	ModePrefixChunks Mode = "prefix"
	// ModeSingle sends the whole document as one unit. The sentinel marks the
	// stored copy only; the wire text is the untouched document.
	ModeSingle Mode = "single"
)

// ParseMode maps a config value to a Mode. Empty means ModePrefixChunks.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModePrefixChunks:
		return ModePrefixChunks, nil
	case ModeSingle:
		return m, nil
	default:
		return "", fmt.Errorf("unknown tag mode %q", s)
	}
}

// Unit is one submission derived from a document.
type Unit struct {
	Wire   string // Text sent to the model.
	Stored string // Text kept in the transcript for the user side of the turn.
	Hidden bool
}

// Tagger turns chunk sequences into tagged units.
type Tagger struct {
	Sentinel    string
	Mode        Mode
	ExposeFirst bool // ModePrefixChunks only: leave the first chunk untagged.
}

// New returns a Tagger, falling back to DefaultSentinel and ModePrefixChunks.
func New(sentinel string, mode Mode, exposeFirst bool) *Tagger {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	if mode == "" {
		mode = ModePrefixChunks
	}
	return &Tagger{Sentinel: sentinel, Mode: mode, ExposeFirst: exposeFirst}
}

// Tag converts chunks into units in their original order. No chunks, no units.
func (t *Tagger) Tag(chunks []string) []Unit {
	if len(chunks) == 0 {
		return nil
	}

	if t.Mode == ModeSingle {
		doc := strings.Join(chunks, "")
		return []Unit{{
			Wire:   doc,
			Stored: t.Sentinel + doc,
			Hidden: true,
		}}
	}

	units := make([]Unit, len(chunks))
	for i, c := range chunks {
		if i == 0 && t.ExposeFirst {
			units[i] = Unit{Wire: c, Stored: c}
			continue
		}
		tagged := t.Sentinel + c
		units[i] = Unit{Wire: tagged, Stored: tagged, Hidden: true}
	}
	return units
}

// Plain wraps chunks as visible, untagged units.
func Plain(chunks []string) []Unit {
	if len(chunks) == 0 {
		return nil
	}
	units := make([]Unit, len(chunks))
	for i, c := range chunks {
		units[i] = Unit{Wire: c, Stored: c}
	}
	return units
}

// IsHidden reports whether text begins with the sentinel.
func (t *Tagger) IsHidden(text string) bool {
	return len(text) >= len(t.Sentinel) && text[:len(t.Sentinel)] == t.Sentinel
}

// Strip removes one leading sentinel, if present.
func (t *Tagger) Strip(text string) string {
	if t.IsHidden(text) {
		return text[len(t.Sentinel):]
	}
	return text
}
