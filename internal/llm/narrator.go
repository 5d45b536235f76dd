package llm

import (
	"context"
	"fmt"
	"strings"

	"eos-mcp/internal/analytics"
)

const narratorPrompt = `You help a lighting programmer learn from a human operator working an ETC Eos console.
You receive an operator insights report in markdown. Summarise in at most five short bullet points
what the operator is doing, what went wrong, and what techniques are worth copying.
Do not invent numbers that are not in the report.`

// Narration is the text returned for a report and how it was produced.
// Model and Usage are empty when no model was called.
type Narration struct {
	Text     string
	Narrated bool
	Model    string
	Usage    Usage
}

// Narrator turns an insights report into a short prose summary.
type Narrator struct {
	client Client
}

// NewNarrator returns a narrator; a nil client makes Narrate return the plain summary.
func NewNarrator(client Client) *Narrator {
	return &Narrator{client: client}
}

func (n *Narrator) Enabled() bool { return n != nil && n.client != nil }

func (n *Narrator) Narrate(ctx context.Context, report *analytics.Report) (Narration, error) {
	summary := report.GenerateReportSummary()
	if !n.Enabled() {
		return Narration{Text: summary}, nil
	}
	resp, err := n.client.Generate(ctx, []Message{
		{Role: RoleSystem, Content: narratorPrompt},
		{Role: RoleUser, Content: summary},
	})
	if err != nil {
		return Narration{}, fmt.Errorf("narrate insights: %w", err)
	}
	return Narration{
		Text:     strings.TrimSpace(resp.Content),
		Narrated: true,
		Model:    resp.Model,
		Usage:    resp.Usage,
	}, nil
}
