package ai

import "context"

// Message is one turn of a conversation, OpenAI chat format.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// GenerationParams control sampling for text generation.
type GenerationParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Provider defines the interface for text generation backends. history
// carries prior turns oldest-first; the user message and system prompt are
// assembled into the request by the provider.
type Provider interface {
	Name() string
	GenerateResponse(ctx context.Context, userMessage string, history []Message, systemPrompt string) (string, error)
}

// ConnectionChecker is implemented by providers that can report whether
// their backend is reachable (local servers mostly).
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}
