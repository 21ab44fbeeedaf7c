package repository

import (
	"context"

	"github.com/card-builder/internal/database"
)

// DefaultSlotKey is the slot holding the serialized card collection
const DefaultSlotKey = "employeeCards"

// SlotRepository is a string key-value store holding whole serialized blobs.
// Set overwrites the slot; there is no compare-and-swap, so concurrent writers
// resolve as last writer wins.
type SlotRepository interface {
	// Get returns the value stored under key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value stored under key
	Set(ctx context.Context, key, value string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Slots   SlotRepository
	Backend string

	// DB is set for the postgres backend
	DB *database.DB
}

// New bundles the slot repository for the given backend name
func New(backend string, slots SlotRepository) *Repositories {
	return &Repositories{
		Slots:   slots,
		Backend: backend,
	}
}
