package knowledge

import (
	"context"
	"fmt"
	"sync"
)

//go:generate mockgen -source=repository.go -destination=../mocks/knowledge/mock_repository.go -package=mock_knowledge

// Repository stores entries keyed by Key(term)
type Repository interface {
	// Add stores an entry. Adding an existing term replaces its descriptions and keeps its position.
	Add(ctx context.Context, entry Entry) error
	// Get returns the entry for term, or nil when the term is unknown
	Get(ctx context.Context, term string) (*Entry, error)
	// All returns every entry in insertion order
	All(ctx context.Context) ([]Entry, error)
}

// MemoryRepository is a process-lifetime Repository
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[string]Entry),
	}
}

func (r *MemoryRepository) Add(_ context.Context, entry Entry) error {
	key := Key(entry.Term)
	if key == "" {
		return fmt.Errorf("term must not be empty")
	}
	entry.Term = key

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		r.order = append(r.order, key)
	}
	r.entries[key] = entry
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, term string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[Key(term)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (r *MemoryRepository) All(_ context.Context) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		entries = append(entries, r.entries[key])
	}
	return entries, nil
}
