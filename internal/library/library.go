// Package library defines the durable home of resume records and its
// in-memory and SQLite implementations. Records are immutable once saved.
package library

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jonathan/resume-variants/internal/types"
)

var (
	// ErrNotFound is returned when no record has the requested id
	ErrNotFound = errors.New("resume not found")
	// ErrAlreadyExists is returned when saving over an existing id
	ErrAlreadyExists = errors.New("resume already exists")
	// ErrBaseNotFound is returned when a variant references an unknown base resume
	ErrBaseNotFound = errors.New("base resume not found")
)

// ListFilter narrows List results. Zero fields match everything.
type ListFilter struct {
	Kind         types.ResumeKind
	BaseResumeID string
	Limit        int
}

// Matches reports whether rec passes the filter's field constraints
func (f ListFilter) Matches(rec types.ResumeRecord) bool {
	if f.Kind != "" && rec.Kind != f.Kind {
		return false
	}
	if f.BaseResumeID != "" && rec.BaseResumeID != f.BaseResumeID {
		return false
	}
	return true
}

// Library stores resume records
type Library interface {
	// Save persists a new record. Existing ids are never overwritten.
	Save(ctx context.Context, rec types.ResumeRecord) error
	// Get returns the record with the given id or ErrNotFound
	Get(ctx context.Context, id string) (types.ResumeRecord, error)
	// List returns matching records, newest first
	List(ctx context.Context, filter ListFilter) ([]types.ResumeRecord, error)
}

// Resolve loads the base resume named by a generation request
func Resolve(ctx context.Context, lib Library, id string) (*types.ResumeRecord, error) {
	rec, err := lib.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBaseNotFound, id)
		}
		return nil, err
	}
	return &rec, nil
}

// sortNewestFirst orders by creation time descending, then id for stability
func sortNewestFirst(recs []types.ResumeRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}
