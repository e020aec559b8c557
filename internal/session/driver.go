package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/dgallion1/docchat/internal/chunker"
	"github.com/dgallion1/docchat/internal/document"
	"github.com/dgallion1/docchat/internal/llm"
	"github.com/dgallion1/docchat/internal/tagger"
)

// ErrEmptyDocument means extraction produced no text; nothing is submitted.
var ErrEmptyDocument = errors.New("nothing to submit: document has no text")

// Policy decides how document-derived turns appear in the transcript.
type Policy string

const (
	PolicyVisible Policy = "visible" // Chunks sent untagged, every turn shown.
	PolicyHidden  Policy = "hidden"  // Tagged turns hidden.
	PolicyMarker  Policy = "marker"  // Tagged turns hidden, then a local upload marker.
)

// ParsePolicy maps a config value to a Policy. Empty means PolicyHidden.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyHidden, nil
	case PolicyVisible, PolicyHidden, PolicyMarker:
		return p, nil
	default:
		return "", fmt.Errorf("unknown document visibility %q", s)
	}
}

// DefaultMarker prefixes the local turn appended under PolicyMarker.
const DefaultMarker = "File Uploaded"

// Options configure a Driver.
type Options struct {
	Chunking chunker.Config
	Tagger   *tagger.Tagger
	Policy   Policy

	// Compat stores the sentinel in place of hidden replies and makes Replay
	// sniff the sentinel prefix in addition to checking Turn.Visible.
	Compat bool

	Marker string

	// OnTransition, if set, is called for every state change.
	OnTransition func(sessionID string, from, to State)
}

// Result summarises a submission.
type Result struct {
	Reply string // Last visible reply; empty when every reply was hidden.
	Sent  int    // Units that completed an exchange.
	Total int    // Units the submission was split into.
	Reset bool   // A stopping condition discarded the transcript.
}

// Driver runs turns against the model for any number of sessions. Each call
// locks its session, so turns within one session never overlap.
type Driver struct {
	model llm.Model
	opts  Options
	log   *slog.Logger
}

func NewDriver(model llm.Model, opts Options, log *slog.Logger) *Driver {
	if opts.Tagger == nil {
		opts.Tagger = tagger.New("", tagger.ModePrefixChunks, false)
	}
	if opts.Policy == "" {
		opts.Policy = PolicyHidden
	}
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.Chunking.Size <= 0 {
		opts.Chunking = chunker.DefaultConfig()
	}
	return &Driver{model: model, opts: opts, log: log}
}

// Open starts the remote conversation for an idle session. It is a no-op for
// a session that already has one.
func (d *Driver) Open(ctx context.Context, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := d.ensureOpenLocked(ctx, s)
	return err
}

// Resume replaces the remote conversation with one seeded from the stored
// transcript. A stopping condition while the history is replayed resets the
// session; the returned bool reports that.
func (d *Driver) Resume(ctx context.Context, s *Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv = nil
	return d.startLocked(ctx, s)
}

// Reset discards the transcript and opens a fresh conversation.
func (d *Driver) Reset(ctx context.Context, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return d.resetLocked(ctx, s, "requested")
}

// Submit sends one visible user message and records the exchange.
func (d *Driver) Submit(ctx context.Context, s *Session, text string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Total: 1}
	reset, err := d.ensureOpenLocked(ctx, s)
	res.Reset = reset
	if err != nil {
		return res, err
	}

	reply, err := s.conv.Send(ctx, text)
	if errors.Is(err, llm.ErrStopped) {
		res.Reset = true
		return res, d.resetLocked(ctx, s, err.Error())
	}
	if err != nil {
		return res, fmt.Errorf("send message: %w", err)
	}

	s.transcript = append(s.transcript,
		Turn{Role: llm.RoleUser, Text: text, Visible: true},
		Turn{Role: llm.RoleModel, Text: reply.Text, Visible: true},
	)
	res.Reply = reply.Text
	res.Sent = 1
	return res, nil
}

// SubmitDocument chunks and tags doc according to the policy, then sends the
// units strictly in order, each after the previous reply. A failure or
// stopping condition abandons the remaining units; completed turns stay.
func (d *Driver) SubmitDocument(ctx context.Context, s *Session, doc *document.Document) (Result, error) {
	if doc.IsEmpty() {
		return Result{}, ErrEmptyDocument
	}

	chunks := d.opts.Chunking.Chunk(doc.Text())
	var units []tagger.Unit
	if d.opts.Policy == PolicyVisible {
		units = tagger.Plain(chunks)
	} else {
		units = d.opts.Tagger.Tag(chunks)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := d.log.With("session_id", s.ID, "source", doc.Source)
	log.Info("submitting document",
		"chunks", len(chunks),
		"units", len(units),
		"estimated_tokens", chunker.EstimateTokens(doc.Text()),
		"policy", d.opts.Policy,
	)

	res := Result{Total: len(units)}
	reset, err := d.ensureOpenLocked(ctx, s)
	res.Reset = reset
	if err != nil {
		return res, err
	}

	for i, u := range units {
		reply, err := s.conv.Send(ctx, u.Wire)
		if errors.Is(err, llm.ErrStopped) {
			log.Warn("stopping condition during document", "unit", i, "error", err)
			res.Reset = true
			return res, d.resetLocked(ctx, s, err.Error())
		}
		if err != nil {
			log.Error("document unit failed", "unit", i, "error", err)
			return res, fmt.Errorf("send unit %d of %d: %w", i+1, len(units), err)
		}

		visible := !u.Hidden
		userTurn := Turn{Role: llm.RoleUser, Text: u.Stored, Visible: visible}
		if u.Wire != u.Stored {
			userTurn.Wire = u.Wire
		}
		modelTurn := Turn{Role: llm.RoleModel, Text: reply.Text, Visible: visible}
		if u.Hidden && d.opts.Compat {
			modelTurn.Text = d.opts.Tagger.Sentinel
			modelTurn.Wire = reply.Text
		}
		s.transcript = append(s.transcript, userTurn, modelTurn)
		if visible {
			res.Reply = reply.Text
		}
		res.Sent++
		log.Debug("document unit sent", "unit", i, "hidden", u.Hidden)
	}

	if d.opts.Policy == PolicyMarker {
		marker := d.opts.Marker
		if doc.Title != "" {
			marker += ": " + doc.Title
		}
		s.transcript = append(s.transcript, Turn{Role: llm.RoleUser, Text: marker, Visible: true, Local: true})
	}
	return res, nil
}

// Replay yields the visible transcript of s as (display role, text) pairs.
func (d *Driver) Replay(s *Session) iter.Seq2[string, string] {
	var hidden func(string) bool
	if d.opts.Compat {
		hidden = d.opts.Tagger.IsHidden
	}
	return Replay(s.Transcript(), hidden)
}

// ensureOpenLocked starts the conversation if there is none. It reports
// whether doing so hit a stopping condition and reset the session.
func (d *Driver) ensureOpenLocked(ctx context.Context, s *Session) (bool, error) {
	if s.conv != nil {
		return false, nil
	}
	return d.startLocked(ctx, s)
}

func (d *Driver) startLocked(ctx context.Context, s *Session) (bool, error) {
	conv, err := d.model.StartSession(ctx, s.historyLocked())
	if errors.Is(err, llm.ErrStopped) {
		return true, d.resetLocked(ctx, s, err.Error())
	}
	if err != nil {
		return false, fmt.Errorf("start session: %w", err)
	}
	s.conv = conv
	d.transitionLocked(s, StateActive)
	return false, nil
}

// resetLocked moves through RESET to a fresh, empty ACTIVE session.
func (d *Driver) resetLocked(ctx context.Context, s *Session, reason string) error {
	d.transitionLocked(s, StateReset)
	d.log.Info("session reset", "session_id", s.ID, "reason", reason, "turns_discarded", len(s.transcript))
	s.transcript = nil
	s.conv = nil

	conv, err := d.model.StartSession(ctx, nil)
	if err != nil {
		return fmt.Errorf("restart session: %w", err)
	}
	s.conv = conv
	d.transitionLocked(s, StateActive)
	return nil
}

func (d *Driver) transitionLocked(s *Session, to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	d.log.Debug("session state", "session_id", s.ID, "from", from, "to", to)
	if d.opts.OnTransition != nil {
		d.opts.OnTransition(s.ID, from, to)
	}
}
