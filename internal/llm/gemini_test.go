package llm

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/genai"
)

func textCandidate(text string, finish genai.FinishReason) *genai.Candidate {
	return &genai.Candidate{
		Content:      genai.NewContentFromText(text, genai.RoleModel),
		FinishReason: finish,
	}
}

func TestReplyFrom_Text(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{textCandidate("Hello there", genai.FinishReason("STOP"))},
	}
	reply, err := replyFrom(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != "Hello there" {
		t.Errorf("expected %q, got %q", "Hello there", reply.Text)
	}
	if reply.FinishReason != "STOP" {
		t.Errorf("expected finish reason STOP, got %q", reply.FinishReason)
	}
}

func TestReplyFrom_SafetyStop(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{textCandidate("partial", genai.FinishReason("SAFETY"))},
	}
	_, err := replyFrom(resp)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	var stopped *StoppedError
	if !errors.As(err, &stopped) || stopped.Reason != "SAFETY" {
		t.Errorf("expected StoppedError with reason SAFETY, got %v", err)
	}
}

func TestReplyFrom_PromptBlocked(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason: genai.BlockedReason("PROHIBITED_CONTENT"),
		},
	}
	if _, err := replyFrom(resp); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped for blocked prompt, got %v", err)
	}
}

func TestReplyFrom_NoCandidates(t *testing.T) {
	if _, err := replyFrom(&genai.GenerateContentResponse{}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped for empty candidates, got %v", err)
	}
	if _, err := replyFrom(nil); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped for nil response, got %v", err)
	}
}

func TestReplyFrom_SkipsEmptyCandidate(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{FinishReason: genai.FinishReason("STOP")},
			textCandidate("second", genai.FinishReason("STOP")),
		},
	}
	reply, err := replyFrom(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != "second" {
		t.Errorf("expected text from second candidate, got %q", reply.Text)
	}
}

func TestToContent_Roles(t *testing.T) {
	if c := toContent(Message{Role: RoleModel, Text: "a"}); c.Role != string(genai.RoleModel) {
		t.Errorf("expected model role, got %q", c.Role)
	}
	if c := toContent(Message{Role: "assistant", Text: "a"}); c.Role != string(genai.RoleUser) {
		t.Errorf("expected unknown role to map to user, got %q", c.Role)
	}
}

func TestClassify(t *testing.T) {
	err := classify(errors.New("Error 429, Message: quota, Status: RESOURCE_EXHAUSTED"))
	var re *RetryableError
	if !errors.As(err, &re) || re.StatusCode != 429 {
		t.Fatalf("expected retryable 429, got %v", err)
	}
	if !IsRetryable(classify(errors.New("Error 503, Status: UNAVAILABLE"))) {
		t.Error("expected 503 to be retryable")
	}
	if IsRetryable(classify(errors.New("Error 400, Status: INVALID_ARGUMENT"))) {
		t.Error("expected 400 not to be retryable")
	}
	if classify(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestStoppedError_Message(t *testing.T) {
	err := &StoppedError{Reason: "SAFETY"}
	if err.Error() != "generation stopped: SAFETY" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := range 8 {
		d := Backoff(attempt)
		if d <= 0 || d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v out of range", attempt, d)
		}
	}
}
