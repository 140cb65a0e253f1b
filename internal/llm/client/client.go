package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// claudeDefaultMaxTokens is required by the Anthropic API; per-call limits
// override it.
const claudeDefaultMaxTokens = 1024

// ErrEmptyChoice is returned when the provider answers without content.
var ErrEmptyChoice = errors.New("completion returned no content")

// ChatGenerator is the part of an eino chat model the client needs.
type ChatGenerator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Factory builds a ChatGenerator for a provider, API key and model name.
type Factory func(ctx context.Context, provider, apiKey, modelName string) (ChatGenerator, error)

// LLMClient sends single-turn completions to one provider model.
type LLMClient struct {
	Provider string
	Model    string
	chat     ChatGenerator
}

func New(provider, modelName string, chat ChatGenerator) *LLMClient {
	return &LLMClient{Provider: provider, Model: modelName, chat: chat}
}

// NewForProvider builds the eino chat model for provider.
func NewForProvider(ctx context.Context, provider, apiKey, modelName string) (*LLMClient, error) {
	chat, err := NewChatModel(ctx, provider, apiKey, modelName)
	if err != nil {
		return nil, err
	}
	return New(provider, modelName, chat), nil
}

// NewChatModel is the default Factory.
func NewChatModel(ctx context.Context, provider, apiKey, modelName string) (ChatGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key for %s is not configured", provider)
	}
	if strings.TrimSpace(modelName) == "" {
		return nil, fmt.Errorf("model is required")
	}

	switch provider {
	case ProviderOpenAI:
		m, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey: apiKey,
			Model:  modelName,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		return m, nil
	case ProviderAnthropic:
		m, err := claude.NewChatModel(ctx, &claude.Config{
			APIKey:    apiKey,
			Model:     modelName,
			MaxTokens: claudeDefaultMaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create claude chat model: %w", err)
		}
		return m, nil
	case ProviderGemini:
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		m, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client: gc,
			Model:  modelName,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini chat model: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// CompletionRequest is one system prompt plus one user turn.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

// Complete returns the text of the first choice.
func (c *LLMClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c == nil || c.chat == nil {
		return "", fmt.Errorf("llm client not initialized")
	}

	messages := make([]*schema.Message, 0, 2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		messages = append(messages, schema.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, schema.UserMessage(req.UserPrompt))

	var opts []model.Option
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, model.WithTemperature(req.Temperature))

	out, err := c.chat.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.Provider, err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", ErrEmptyChoice
	}
	return out.Content, nil
}
