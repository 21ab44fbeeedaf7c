package repository

import (
	"context"
	"sync"
)

// memorySlotRepo keeps slots in process memory
type memorySlotRepo struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlotRepo creates an empty in-memory slot repository
func NewMemorySlotRepo() SlotRepository {
	return &memorySlotRepo{slots: make(map[string]string)}
}

func (r *memorySlotRepo) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.slots[key]
	return v, ok, nil
}

func (r *memorySlotRepo) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[key] = value
	return nil
}
