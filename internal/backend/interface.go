// Package backend assembles the data-access stack from configuration:
// which store to use, and whether the async export pipeline is attached.
package backend

import (
	"savings/internal/ledger"
	"savings/internal/services"
)

// CleanupFunc releases the backend's resources.
type CleanupFunc func() error

// Result bundles the assembled store and service with their cleanup.
type Result struct {
	Store   ledger.Store
	Service *services.SavingsService
	Cleanup CleanupFunc
}

// Type selects the storage implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
