package llm

import (
	"context"

	"github.com/openai/openai-go"
)

// LLMRequest represents a request to the LLM
type LLMRequest struct {
	Messages    []openai.ChatCompletionMessageParamUnion `json:"messages"`
	Model       string                                   `json:"model,omitempty"`
	MaxTokens   int                                      `json:"max_tokens,omitempty"`
	Temperature float32                                  `json:"temperature"`
}

// LLMResponse represents a complete LLM response
type LLMResponse struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}

// LLMClient defines the interface for LLM providers
type LLMClient interface {
	// Chat sends a chat completion request and returns the complete response
	Chat(ctx context.Context, req *LLMRequest) (*LLMResponse, error)

	// GetModel returns the current model
	GetModel() string
}
