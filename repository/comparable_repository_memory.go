package repository

import (
	"context"
	"sort"
	"sync"

	"realty-calc/domain"
)

// ComparableRepositoryMemory is an in-memory implementation of
// ComparableRepository.
type ComparableRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.SavedComparable
}

// NewComparableRepositoryMemory creates a new in-memory comparable repository.
func NewComparableRepositoryMemory() *ComparableRepositoryMemory {
	return &ComparableRepositoryMemory{
		data: make(map[string]domain.SavedComparable),
	}
}

// Save stores the comparable, replacing any with the same ID.
func (r *ComparableRepositoryMemory) Save(_ context.Context, c domain.SavedComparable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[c.ID] = c
	return nil
}

func (r *ComparableRepositoryMemory) List(_ context.Context, location string) ([]domain.SavedComparable, error) {
	r.mu.RLock()
	out := make([]domain.SavedComparable, 0, len(r.data))
	for _, c := range r.data {
		if location == "" || c.Location == location {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ComparableRepositoryMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrComparableNotFound
	}
	delete(r.data, id)
	return nil
}
