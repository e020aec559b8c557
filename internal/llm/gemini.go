package llm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API through google.golang.org/genai.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *slog.Logger
	Stats   *LLMStats

	backoff func(attempt int) time.Duration
}

func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, log *slog.Logger) (*GeminiClient, error) {
	return newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, timeout, log)
}

func newGeminiClient(ctx context.Context, cc *genai.ClientConfig, model string, timeout time.Duration, log *slog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GeminiClient{
		client:  client,
		model:   model,
		timeout: timeout,
		log:     log,
		Stats:   NewLLMStats(time.Hour),
		backoff: Backoff,
	}, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// StartSession seeds a conversation with prior turns. It makes no remote call.
func (c *GeminiClient) StartSession(ctx context.Context, history []Message) (Conversation, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		contents = append(contents, toContent(m))
	}
	return &geminiConversation{client: c, history: contents}, nil
}

type geminiConversation struct {
	client  *GeminiClient
	history []*genai.Content
}

// Send appends text as a user turn and asks for the next model turn. History
// only grows when a reply text comes back.
func (g *geminiConversation) Send(ctx context.Context, text string) (Reply, error) {
	contents := append(slices.Clip(g.history), genai.NewContentFromText(text, genai.RoleUser))

	var resp *genai.GenerateContentResponse
	var elapsed time.Duration
	var err error
	for attempt := range MaxRetries {
		resp, elapsed, err = g.client.generate(ctx, contents)
		if err == nil || !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		g.client.log.Warn("retryable gemini error", "attempt", attempt, "error", err)
		select {
		case <-time.After(g.client.backoff(attempt)):
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		}
	}
	if err != nil {
		return Reply{}, err
	}

	reply, err := replyFrom(resp)
	if err != nil {
		g.client.Stats.Record(elapsed, OutcomeStopped)
		return Reply{}, err
	}
	g.client.Stats.Record(elapsed, OutcomeOK)
	g.history = append(contents, genai.NewContentFromText(reply.Text, genai.RoleModel))
	return reply, nil
}

// generate makes one GenerateContent call. Failed calls are recorded here;
// the caller records the rest once it knows whether the reply was stopped.
func (c *GeminiClient) generate(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	elapsed := time.Since(start)
	if err != nil {
		c.Stats.Record(elapsed, OutcomeFailed)
		return nil, elapsed, classify(fmt.Errorf("gemini generate: %w", err))
	}
	c.log.Debug("gemini reply", "model", c.model, "turns", len(contents), "duration_ms", elapsed.Milliseconds())
	return resp, elapsed, nil
}

func toContent(m Message) *genai.Content {
	var role genai.Role = genai.RoleUser
	if m.Role == RoleModel {
		role = genai.RoleModel
	}
	return genai.NewContentFromText(m.Text, role)
}

// stopReasons are finish reasons that end generation by policy.
var stopReasons = map[string]bool{
	"SAFETY":             true,
	"RECITATION":         true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
	"IMAGE_SAFETY":       true,
}

// replyFrom extracts the first candidate with text, or a StoppedError when the
// prompt was blocked, a candidate was stopped by policy, or nothing came back.
func replyFrom(resp *genai.GenerateContentResponse) (Reply, error) {
	if resp == nil {
		return Reply{}, &StoppedError{Reason: "empty response"}
	}
	if fb := resp.PromptFeedback; fb != nil {
		if r := string(fb.BlockReason); r != "" && r != "BLOCKED_REASON_UNSPECIFIED" {
			return Reply{}, &StoppedError{Reason: "prompt blocked: " + r}
		}
	}

	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		finish := string(cand.FinishReason)
		if stopReasons[finish] {
			return Reply{}, &StoppedError{Reason: finish}
		}
		if cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() > 0 {
			return Reply{Text: sb.String(), FinishReason: finish}, nil
		}
	}
	return Reply{}, &StoppedError{Reason: "no candidate text"}
}
