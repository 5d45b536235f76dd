// Package llm narrates operator insights with an optional language model.
package llm

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn sent to a model.
type Message struct {
	Role    string
	Content string
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a single completion.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Client generates one completion for a conversation.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
