package mocks

import (
	"context"
	"sync"

	"aiteam/internal/models"
)

type ResponderMock struct {
	GenerateResponseFunc func(ctx context.Context, prompt, personaID string, convCtx any) (string, error)
	GenerateCodeFunc     func(ctx context.Context, prompt, language string) (string, error)
	PerformResearchFunc  func(ctx context.Context, query string) (models.ResearchResult, error)

	mu       sync.Mutex
	Personas []string
}

func (m *ResponderMock) GenerateResponse(ctx context.Context, prompt, personaID string, convCtx any) (string, error) {
	m.mu.Lock()
	m.Personas = append(m.Personas, personaID)
	m.mu.Unlock()
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, personaID, convCtx)
	}
	return "reply from " + personaID, nil
}

func (m *ResponderMock) GenerateCode(ctx context.Context, prompt, language string) (string, error) {
	if m.GenerateCodeFunc != nil {
		return m.GenerateCodeFunc(ctx, prompt, language)
	}
	return "", nil
}

func (m *ResponderMock) PerformResearch(ctx context.Context, query string) (models.ResearchResult, error) {
	if m.PerformResearchFunc != nil {
		return m.PerformResearchFunc(ctx, query)
	}
	return models.ResearchResult{Summary: query}, nil
}

func (m *ResponderMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Personas)
}

// UserKeyLoaderMock counts LoadUserKeys calls.
type UserKeyLoaderMock struct {
	LoadUserKeysFunc func(ctx context.Context, userID string) error

	mu    sync.Mutex
	Users []string
}

func (m *UserKeyLoaderMock) LoadUserKeys(ctx context.Context, userID string) error {
	m.mu.Lock()
	m.Users = append(m.Users, userID)
	m.mu.Unlock()
	if m.LoadUserKeysFunc != nil {
		return m.LoadUserKeysFunc(ctx, userID)
	}
	return nil
}
