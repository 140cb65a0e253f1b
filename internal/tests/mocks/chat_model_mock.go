package mocks

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"aiteam/internal/llm/client"
)

// ChatModelMock is a client.ChatGenerator that records each call.
type ChatModelMock struct {
	GenerateFunc func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)

	mu    sync.Mutex
	Calls []ChatCall
}

type ChatCall struct {
	Input   []*schema.Message
	Options *model.Options
}

func (m *ChatModelMock) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, ChatCall{Input: input, Options: model.GetCommonOptions(nil, opts...)})
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, input, opts...)
	}
	return schema.AssistantMessage("ok", nil), nil
}

func (m *ChatModelMock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Factory returns a client.Factory that always hands out m and records the
// key and model it was asked for.
func (m *ChatModelMock) Factory(gotKey, gotModel *string) client.Factory {
	return func(ctx context.Context, provider, apiKey, modelName string) (client.ChatGenerator, error) {
		if gotKey != nil {
			*gotKey = apiKey
		}
		if gotModel != nil {
			*gotModel = modelName
		}
		return m, nil
	}
}
