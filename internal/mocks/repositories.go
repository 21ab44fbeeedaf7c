package mocks

import (
	"context"
	"sync"

	"github.com/card-builder/internal/repository"
)

// MockSlotRepository is a mock implementation of SlotRepository
type MockSlotRepository struct {
	mu       sync.Mutex
	Data     map[string]string
	GetError error
	SetError error
	GetCalls int
	SetCalls int
}

// Verify interface compliance
var _ repository.SlotRepository = (*MockSlotRepository)(nil)

func NewMockSlotRepository() *MockSlotRepository {
	return &MockSlotRepository{
		Data: make(map[string]string),
	}
}

func (m *MockSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetError != nil {
		return "", false, m.GetError
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *MockSlotRepository) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	m.Data[key] = value
	return nil
}
