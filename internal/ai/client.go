package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nurlan2209/undeme/pkg/config"
	"github.com/nurlan2209/undeme/pkg/enums"
)

const systemPrompt = "You are Undeme Safety Assistant. " +
	"Answer in clear Kazakh language. " +
	"Avoid legal certainty claims and avoid hallucinations. " +
	"If the user is in immediate danger, the first line must instruct to call 112. " +
	"Format the response as short numbered actions only."

// ModelClient produces one completion from a named model.
type ModelClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// OpenAIClient is the production ModelClient backed by the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient builds a client from the AI config. BaseURL may point at
// any OpenAI-compatible endpoint.
func NewOpenAIClient(cfg config.AIConfig) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(clientCfg)}
}

// Complete requests one chat completion and returns the trimmed text.
func (c *OpenAIClient) Complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.3,
		MaxTokens:   500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("model returned empty response")
	}
	return text, nil
}

// BuildPrompt renders the model prompt from the message and safety context.
func BuildPrompt(message string, context enums.ChatContext, safetyFlags []string) string {
	safetyBlock := "No high-risk safety flags detected."
	if len(safetyFlags) > 0 {
		safetyBlock = fmt.Sprintf("Safety flags: %s. Prioritize immediate emergency guidance.", strings.Join(safetyFlags, ", "))
	}
	return strings.Join([]string{
		fmt.Sprintf("Context: %s", context),
		safetyBlock,
		fmt.Sprintf("User message: %s", message),
	}, "\n")
}
