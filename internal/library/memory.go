package library

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/resume-variants/internal/types"
)

// Memory stores records in memory and is safe for concurrent use
type Memory struct {
	mu   sync.RWMutex
	byID map[string]types.ResumeRecord
}

// NewMemory constructs a Memory library
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]types.ResumeRecord)}
}

// Save implements Library
func (m *Memory) Save(ctx context.Context, rec types.ResumeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[rec.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, rec.ID)
	}
	if rec.BaseResumeID != "" {
		if _, ok := m.byID[rec.BaseResumeID]; !ok {
			return fmt.Errorf("%w: %s", ErrBaseNotFound, rec.BaseResumeID)
		}
	}
	m.byID[rec.ID] = rec.Clone()
	return nil
}

// Get implements Library
func (m *Memory) Get(ctx context.Context, id string) (types.ResumeRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.ResumeRecord{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byID[id]
	if !ok {
		return types.ResumeRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec.Clone(), nil
}

// List implements Library
func (m *Memory) List(ctx context.Context, filter ListFilter) ([]types.ResumeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	out := make([]types.ResumeRecord, 0, len(m.byID))
	for _, rec := range m.byID {
		if filter.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	m.mu.RUnlock()

	sortNewestFirst(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
