// Package session holds per-user conversation state and drives document and
// message submissions through the remote model one turn at a time.
package session

import (
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/docchat/internal/llm"
)

// State is the lifecycle position of a Session.
type State string

const (
	StateIdle   State = "IDLE"   // No remote conversation yet.
	StateActive State = "ACTIVE" // Remote conversation open; transcript may be empty.
	StateReset  State = "RESET"  // Stopping condition hit; transcript being discarded.
)

// Turn is one side of an exchange as kept in the transcript.
type Turn struct {
	Role    string `json:"role"`
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
	Local   bool   `json:"local,omitempty"` // Display-only; never sent to the model.

	// Wire is what was actually exchanged with the model when it differs from
	// Text, e.g. an untagged document or a reply replaced by the sentinel.
	Wire string `json:"-"`
}

// wireText is the text the model saw for this turn.
func (t Turn) wireText() string {
	if t.Wire != "" {
		return t.Wire
	}
	return t.Text
}

// Session is one interaction window's conversation. Driver operations hold mu
// for their whole duration, so a session has exactly one logical actor.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time

	state      State
	transcript []Turn
	conv       llm.Conversation
	lastUsed   atomic.Int64 // unix nanos
}

func newSession(id string, now time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		state:     StateIdle,
	}
	s.lastUsed.Store(now.UnixNano())
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the stored turns, hidden ones included.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// LastUsed is the last time the session was fetched from its store.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

// historyLocked converts the transcript into model history as originally
// exchanged, skipping local turns.
func (s *Session) historyLocked() []llm.Message {
	msgs := make([]llm.Message, 0, len(s.transcript))
	for _, t := range s.transcript {
		if t.Local {
			continue
		}
		msgs = append(msgs, llm.Message{Role: t.Role, Text: t.wireText()})
	}
	return msgs
}

// DisplayRole maps the model's role label to the presentation label.
func DisplayRole(role string) string {
	if role == llm.RoleModel {
		return "assistant"
	}
	return role
}

// Replay yields (display role, text) for every turn that should be shown.
// A turn is skipped when it is not Visible, or when hidden reports true for
// its text. hidden may be nil. Replay has no side effects on turns.
func Replay(turns []Turn, hidden func(string) bool) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, t := range turns {
			if !t.Visible || (hidden != nil && hidden(t.Text)) {
				continue
			}
			if !yield(DisplayRole(t.Role), t.Text) {
				return
			}
		}
	}
}
