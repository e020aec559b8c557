// Package llm is the boundary to the hosted conversational model.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Roles as the remote API labels them.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one entry of conversation history handed to StartSession.
type Message struct {
	Role string
	Text string
}

// Reply is the model's answer to one Send.
type Reply struct {
	Text         string
	FinishReason string
}

// Model opens conversations.
type Model interface {
	StartSession(ctx context.Context, history []Message) (Conversation, error)
}

// Conversation is a stateful, strictly sequential exchange with the model.
// Send must not be called again before the previous call returns.
type Conversation interface {
	Send(ctx context.Context, text string) (Reply, error)
}

// ErrStopped is the stopping condition: generation was refused or cut off by
// policy. Callers reset their session when errors.Is(err, ErrStopped).
var ErrStopped = errors.New("generation stopped")

// StoppedError carries the reason the remote API gave.
type StoppedError struct {
	Reason string
}

func (e *StoppedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStopped, e.Reason)
}

func (e *StoppedError) Unwrap() error { return ErrStopped }
