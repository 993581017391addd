package sqlgen

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/openai/openai-go"

	"nlquery-backend/internal/llm"
)

// ErrEmptyQuery is returned when the model produced no usable SQL
var ErrEmptyQuery = errors.New("no query generated")

// Generator turns a question and a schema summary into SQL
type Generator struct {
	client llm.LLMClient
}

// NewGenerator creates a generator backed by the given LLM client
func NewGenerator(client llm.LLMClient) *Generator {
	return &Generator{client: client}
}

// GenerateSQL asks the model for a query and extracts the SQL from its
// answer. Sampling is deterministic (temperature 0).
func (g *Generator) GenerateSQL(ctx context.Context, question, schemaSummary string) (string, error) {
	req := &llm.LLMRequest{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(BuildPrompt(question, schemaSummary)),
		},
		Temperature: 0,
	}

	resp, err := g.client.Chat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate sql: %w", err)
	}

	query := ExtractSQL(resp.Content)
	if query == "" {
		return "", ErrEmptyQuery
	}

	log.Printf("Generated SQL (%s, %d tokens): %s", resp.Model, resp.TokensUsed, query)
	return query, nil
}
