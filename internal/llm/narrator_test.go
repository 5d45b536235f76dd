package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"eos-mcp/internal/analytics"
)

type fakeClient struct {
	got  []Message
	resp string
	err  error
}

func (f *fakeClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	f.got = messages
	return Response{
		Content: f.resp,
		Model:   "gpt-4o-mini",
		Usage:   Usage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150},
	}, f.err
}

func testReport() *analytics.Report {
	return analytics.Analyze(nil, nil, 10, time.Now(), analytics.DefaultThresholds())
}

func TestNarrateWithoutClientReturnsSummary(t *testing.T) {
	n := NewNarrator(nil)
	if n.Enabled() {
		t.Fatalf("narrator without client must be disabled")
	}
	out, err := n.Narrate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if !strings.Contains(out.Text, "Operator insights (last 10 min)") {
		t.Fatalf("expected plain summary, got %q", out.Text)
	}
	if out.Narrated || out.Model != "" || out.Usage != (Usage{}) {
		t.Fatalf("plain summary must not report model usage: %+v", out)
	}
}

func TestNarrateSendsSummaryToModel(t *testing.T) {
	fc := &fakeClient{resp: "  - Operator idle  "}
	out, err := NewNarrator(fc).Narrate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if out.Text != "- Operator idle" || !out.Narrated {
		t.Fatalf("unexpected narration %+v", out)
	}
	if out.Model != "gpt-4o-mini" || out.Usage.TotalTokens != 150 || out.Usage.PromptTokens != 120 {
		t.Fatalf("model usage not carried: %+v", out)
	}
	if len(fc.got) != 2 || fc.got[0].Role != "system" || !strings.Contains(fc.got[1].Content, "Feedback messages: 0") {
		t.Fatalf("unexpected prompt: %+v", fc.got)
	}
}

func TestNarrateError(t *testing.T) {
	fc := &fakeClient{err: errors.New("boom")}
	if _, err := NewNarrator(fc).Narrate(context.Background(), testReport()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFactoryCreateClient(t *testing.T) {
	f := &Factory{}
	c, err := f.CreateClient("")
	if err != nil || c != nil {
		t.Fatalf("empty provider should disable narration: %v %v", c, err)
	}
	if _, err := f.CreateClient("openai"); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := f.CreateClient("yandex"); err == nil {
		t.Fatalf("expected error without yandex credentials")
	}
	if _, err := f.CreateClient("mystery"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	f.OpenaiAPIKey = "sk-test"
	f.OpenaiModel = "gpt-4o-mini"
	c, err = f.CreateClient("OpenAI")
	if err != nil || c == nil {
		t.Fatalf("expected openai client: %v", err)
	}
}
