package mocks

import (
	"context"
	"sync"
)

// SlotRepositoryMock is an in-memory slot store. The Func fields, when set,
// replace the default behavior.
type SlotRepositoryMock struct {
	ReadFunc   func(ctx context.Context, key string) (string, bool, error)
	WriteFunc  func(ctx context.Context, key, value string) error
	RemoveFunc func(ctx context.Context, key string) error

	mu     sync.Mutex
	values map[string]string
	Writes int
}

func NewSlotRepositoryMock() *SlotRepositoryMock {
	return &SlotRepositoryMock{values: map[string]string{}}
}

func (m *SlotRepositoryMock) Read(ctx context.Context, key string) (string, bool, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *SlotRepositoryMock) Write(ctx context.Context, key, value string) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	m.Writes++
	return nil
}

func (m *SlotRepositoryMock) Remove(ctx context.Context, key string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Value returns the raw stored value for key.
func (m *SlotRepositoryMock) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Seed stores a value without counting it as a write.
func (m *SlotRepositoryMock) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
}
