package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/docchat/internal/llm"
)

// fakeModel scripts replies, failures and stopping conditions by send index.
type fakeModel struct {
	stopAt        map[int]bool
	failAt        map[int]error
	stopOnHistory bool

	sent   []string
	starts [][]llm.Message
}

func (m *fakeModel) StartSession(ctx context.Context, history []llm.Message) (llm.Conversation, error) {
	m.starts = append(m.starts, history)
	if m.stopOnHistory && len(history) > 0 {
		return nil, &llm.StoppedError{Reason: "SAFETY"}
	}
	return &fakeConv{m: m}, nil
}

type fakeConv struct {
	m *fakeModel
}

func (c *fakeConv) Send(ctx context.Context, text string) (llm.Reply, error) {
	i := len(c.m.sent)
	c.m.sent = append(c.m.sent, text)
	if c.m.stopAt[i] {
		return llm.Reply{}, &llm.StoppedError{Reason: "SAFETY"}
	}
	if err := c.m.failAt[i]; err != nil {
		return llm.Reply{}, err
	}
	return llm.Reply{Text: fmt.Sprintf("reply %d", i), FinishReason: "STOP"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
