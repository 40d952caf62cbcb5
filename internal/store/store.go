package store

import (
	"fmt"
	"sync"

	"github.com/jonathan/resume-variants/internal/types"
)

// DefaultHistory is the number of undo steps kept when none is configured
const DefaultHistory = 50

// Store holds the current State and a bounded undo history. Safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	current    State
	history    []State
	maxHistory int
	claimed    map[string]bool
}

// New creates an empty store keeping up to maxHistory undo steps (DefaultHistory if <= 0)
func New(maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = DefaultHistory
	}
	return &Store{maxHistory: maxHistory, claimed: make(map[string]bool)}
}

// Snapshot returns the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// update applies fn to the current state and records the previous one for undo
func (s *Store) update(fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.current)
	if err != nil {
		return s.current, err
	}
	s.history = append(s.history, s.current)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	s.current = next
	return next, nil
}

// PutDraft stores d
func (s *Store) PutDraft(d types.VariantDraft) {
	_, _ = s.update(func(st State) (State, error) { return st.WithDraft(d), nil })
}

// Draft returns a copy of the draft
func (s *Store) Draft(id string) (types.VariantDraft, error) {
	d, ok := s.Snapshot().Draft(id)
	if !ok {
		return types.VariantDraft{}, ErrDraftNotFound
	}
	return d, nil
}

// Drafts returns copies of all drafts
func (s *Store) Drafts() []types.VariantDraft {
	return s.Snapshot().Drafts()
}

// Discard destroys a draft
func (s *Store) Discard(id string) error {
	_, err := s.update(func(st State) (State, error) {
		if s.claimed[id] {
			return st, fmt.Errorf("%w: %s", ErrDraftBusy, id)
		}
		return st.WithoutDraft(id)
	})
	return err
}

// SetSuggestionStatus updates one suggestion and returns the updated draft
func (s *Store) SetSuggestionStatus(draftID, suggestionID string, status types.SuggestionStatus) (types.VariantDraft, error) {
	st, err := s.update(func(st State) (State, error) {
		if s.claimed[draftID] {
			return st, fmt.Errorf("%w: %s", ErrDraftBusy, draftID)
		}
		return st.WithSuggestionStatus(draftID, suggestionID, status)
	})
	if err != nil {
		return types.VariantDraft{}, err
	}
	d, _ := st.Draft(draftID)
	return d, nil
}

// SetAllSuggestionStatus updates every suggestion of a draft and returns the updated draft
func (s *Store) SetAllSuggestionStatus(draftID string, status types.SuggestionStatus) (types.VariantDraft, error) {
	st, err := s.update(func(st State) (State, error) {
		if s.claimed[draftID] {
			return st, fmt.Errorf("%w: %s", ErrDraftBusy, draftID)
		}
		return st.WithAllSuggestionStatus(draftID, status)
	})
	if err != nil {
		return types.VariantDraft{}, err
	}
	d, _ := st.Draft(draftID)
	return d, nil
}

// Claim reserves a draft for materialization and returns a copy of it.
// Only one claim per draft is granted; it ends with Commit or Release.
func (s *Store) Claim(draftID string) (types.VariantDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.current.Draft(draftID)
	if !ok {
		return types.VariantDraft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, draftID)
	}
	if s.claimed[draftID] {
		return types.VariantDraft{}, fmt.Errorf("%w: %s", ErrDraftBusy, draftID)
	}
	s.claimed[draftID] = true
	return d, nil
}

// Release gives up a claim without changing the draft
func (s *Store) Release(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claimed, draftID)
}

// Commit destroys the draft and records the variant materialized from it.
// The change is applied to every undo step as well: a materialized draft
// never comes back.
func (s *Store) Commit(draftID string, rec types.ResumeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.current.Commit(draftID, rec)
	if err != nil {
		return err
	}
	for i, h := range s.history {
		if without, err := h.WithoutDraft(draftID); err == nil {
			h = without
		}
		s.history[i] = h.WithResume(rec)
	}
	s.current = next
	delete(s.claimed, draftID)
	return nil
}

// Resumes returns the records committed during the session
func (s *Store) Resumes() []types.ResumeRecord {
	return s.Snapshot().Resumes()
}

// Undo restores the state before the most recent change
func (s *Store) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return ErrNothingToUndo
	}
	if len(s.claimed) > 0 {
		return ErrDraftBusy
	}
	last := len(s.history) - 1
	s.current = s.history[last]
	s.history = s.history[:last]
	return nil
}
