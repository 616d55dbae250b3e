package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIAnalyst struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIAnalyst(apiKey string) *OpenAIAnalyst {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAnalyst{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

// WriteBriefing runs two completions, one per language, at temperature zero
// to bias the model toward citation fidelity. A failure in either call fails
// the whole briefing; there is no retry.
func (c *OpenAIAnalyst) WriteBriefing(ctx context.Context, input BriefingInput) (*BriefingResult, error) {
	userPrompt := buildUserPrompt(input)

	reportZH, err := c.complete(ctx, systemPromptZH, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("chinese briefing: %w", err)
	}

	reportEN, err := c.complete(ctx, systemPromptEN, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("english briefing: %w", err)
	}

	return &BriefingResult{
		ReportZH:  reportZH,
		ReportEN:  reportEN,
		ModelUsed: c.modelName,
	}, nil
}

func (c *OpenAIAnalyst) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Temperature: openai.Float(0),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
