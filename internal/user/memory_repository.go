package user

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]Record
	byName map[string]Record
}

// NewMemoryRepository constructs an in-memory repository for tests and dev.
func NewMemoryRepository() Repository {
	return &memoryRepository{byID: make(map[string]Record), byName: make(map[string]Record)}
}

func (r *memoryRepository) Save(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if holder, ok := r.byName[rec.Username]; ok && holder.UserID != rec.UserID {
		return ErrUsernameTaken
	}
	if prev, ok := r.byID[rec.UserID]; ok {
		delete(r.byName, prev.Username)
	}
	r.byID[rec.UserID] = rec
	r.byName[rec.Username] = rec
	return nil
}

func (r *memoryRepository) FindByUsername(_ context.Context, username string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byName[username]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *memoryRepository) FindByID(_ context.Context, userID string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
