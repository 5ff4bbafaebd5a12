package transport

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/FolioChat/internal/chaterr"
)

// OpenAIExchanger answers directly from an OpenAI-compatible completions API
// instead of the portfolio backend. The endpoint argument is ignored.
type OpenAIExchanger struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

func NewOpenAIExchanger(client *openai.Client, model, systemPrompt string) *OpenAIExchanger {
	return &OpenAIExchanger{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

func (o *OpenAIExchanger) Exchange(ctx context.Context, _ string, payload ChatRequest) (*ChatReply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if o.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: payload.Message,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, chaterr.Unknown("completion returned no choices", nil)
	}
	return &ChatReply{Reply: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return chaterr.Server(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return chaterr.Server(reqErr.HTTPStatusCode, "")
	}
	return chaterr.Network(err)
}
