package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig configures the OpenAI-backed Model
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // Optional: for proxies or compatible gateways
	Model      string
	HTTPClient *http.Client
}

type chatCompletions interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIModel answers structured requests through the chat completions API
// with a strict JSON schema response format
type OpenAIModel struct {
	completions chatCompletions
	model       string
}

// NewOpenAIModel creates a Model talking to the OpenAI API
func NewOpenAIModel(cfg OpenAIConfig) (*OpenAIModel, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: api key required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	client := openai.NewClient(opts...)
	return &OpenAIModel{
		completions: &client.Chat.Completions,
		model:       modelName,
	}, nil
}

// Generate sends the prompt with temperature 0 and returns the raw JSON
// content of the first choice
func (m *OpenAIModel) Generate(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        req.Name,
					Description: openai.String(req.Description),
					Schema:      req.Schema,
					Strict:      openai.Bool(true),
				},
			},
		},
	}

	completion, err := m.completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrNoStructuredOutput)
	}

	msg := completion.Choices[0].Message
	if msg.Refusal != "" {
		return nil, fmt.Errorf("%w: refused: %s", ErrNoStructuredOutput, msg.Refusal)
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrNoStructuredOutput)
	}

	return json.RawMessage(content), nil
}
