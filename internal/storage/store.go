// Package storage defines the entity store contract used by the import and
// export pipelines, the backend factory registry and the batch loader.
//
// Backends live in subpackages (sqlite, mssql, mysql, postgres) and register
// themselves from init; import internal/storage/all to enable all of them.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

// Config is the backend-agnostic store configuration.
type Config struct {
	// Kind selects the backend, e.g. "sqlite", "postgres", "pq", "mssql", "mysql".
	Kind string
	// DSN is passed to the backend's driver.
	DSN string
}

// Store is an open connection to an entity store.
type Store interface {
	// Begin starts a unit of work; nothing is visible to others until Commit.
	Begin(ctx context.Context) (UnitOfWork, error)
	// EnsureSchema creates missing tables for every registered entity type.
	EnsureSchema(ctx context.Context) error
	Close() error
}

// UnitOfWork is a transaction-scoped view of the store.
//
// Create persists one entity. A failed Create leaves the unit of work usable:
// backends isolate each row so earlier and later rows still commit.
type UnitOfWork interface {
	Create(ctx context.Context, e schema.Entity) error
	FetchAll(ctx context.Context, et *schema.EntityType) ([]schema.Entity, error)
	FetchByID(ctx context.Context, et *schema.EntityType, key schema.Key) (schema.Entity, error)
	Update(ctx context.Context, et *schema.EntityType, key schema.Key, fields map[string]any) (schema.Entity, error)
	Delete(ctx context.Context, et *schema.EntityType, key schema.Key) error
	Commit() error
	Rollback() error
}

// Factory opens a Store for a backend kind.
type Factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a store of cfg.Kind.
func New(ctx context.Context, cfg Config) (Store, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
