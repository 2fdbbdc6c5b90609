package narrative

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Generator rewrites the template narrative into friendlier prose with a
// language model. It is optional: callers fall back to the template text
// when no generator is available or a rewrite fails.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a narrative generator. It reads the OPENAI_API_KEY
// environment variable for authentication.
func NewGenerator() (*Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Generator{
		client: client,
		model:  openai.ChatModelGPT4oMini,
	}, nil
}

const rewriteSystemPrompt = `You rewrite statistical weather summaries into short, clear prose for a general audience.
Keep every number exactly as given. Do not add forecasts or claims not present in the input. Two to four sentences.`

// Rewrite returns a reworded version of the template narrative. Numbers are
// preserved; on any failure the caller should keep the original text.
func (g *Generator) Rewrite(ctx context.Context, text string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(rewriteSystemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrative rewrite failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("no narrative returned")
	}
	return resp.Choices[0].Message.Content, nil
}
