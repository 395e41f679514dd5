package llm

import "context"

// ChatRequest is a single system+user exchange.
type ChatRequest struct {
	System    string
	User      string
	MaxTokens int64
}

// ChatResponse carries the first choice's content and the provider's raw reply.
// Content is empty when the provider returned no choices or an empty message.
type ChatResponse struct {
	Content string
	Raw     string
}

// Client is a minimal chat-completion interface to allow pluggable providers.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
