package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicAnalyst struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicAnalyst(apiKey string) *AnthropicAnalyst {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicAnalyst{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicAnalyst) WriteBriefing(ctx context.Context, input BriefingInput) (*BriefingResult, error) {
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

func (c *AnthropicAnalyst) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   4096,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return resp.Content[0].Text, nil
}
