package mocks

import (
	"context"
	"sync"

	"aiteam/internal/models"
)

// DataServiceMock records writes in memory. The Func fields, when set,
// replace the default behavior.
type DataServiceMock struct {
	InsertMessageFunc     func(ctx context.Context, rec *models.MessageRecord) error
	UpsertAPIKeyFunc      func(ctx context.Context, key *models.APIKey) error
	ListActiveAPIKeysFunc func(ctx context.Context, userID string) ([]models.APIKey, error)
	DeactivateAPIKeyFunc  func(ctx context.Context, userID, service string) error
	UpsertProjectFunc     func(ctx context.Context, p *models.Project) error
	ListProjectsFunc      func(ctx context.Context, userID string) ([]models.Project, error)

	mu       sync.Mutex
	messages []models.MessageRecord
	keys     []models.APIKey
	projects []models.Project
}

func (m *DataServiceMock) InsertMessage(ctx context.Context, rec *models.MessageRecord) error {
	if m.InsertMessageFunc != nil {
		if err := m.InsertMessageFunc(ctx, rec); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *rec)
	return nil
}

func (m *DataServiceMock) UpsertAPIKey(ctx context.Context, key *models.APIKey) error {
	if m.UpsertAPIKeyFunc != nil {
		return m.UpsertAPIKeyFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, *key)
	return nil
}

func (m *DataServiceMock) ListActiveAPIKeys(ctx context.Context, userID string) ([]models.APIKey, error) {
	if m.ListActiveAPIKeysFunc != nil {
		return m.ListActiveAPIKeysFunc(ctx, userID)
	}
	return nil, nil
}

func (m *DataServiceMock) DeactivateAPIKey(ctx context.Context, userID, service string) error {
	if m.DeactivateAPIKeyFunc != nil {
		return m.DeactivateAPIKeyFunc(ctx, userID, service)
	}
	return nil
}

func (m *DataServiceMock) UpsertProject(ctx context.Context, p *models.Project) error {
	if m.UpsertProjectFunc != nil {
		return m.UpsertProjectFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = append(m.projects, *p)
	return nil
}

func (m *DataServiceMock) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, userID)
	}
	return nil, nil
}

// Messages returns the mirrored message rows in insertion order.
func (m *DataServiceMock) Messages() []models.MessageRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.MessageRecord(nil), m.messages...)
}

func (m *DataServiceMock) Keys() []models.APIKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.APIKey(nil), m.keys...)
}

func (m *DataServiceMock) Projects() []models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Project(nil), m.projects...)
}
