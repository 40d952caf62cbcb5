// Package store keeps variant drafts under review as immutable snapshots.
// Every change produces a new State, which makes undo a matter of keeping
// the previous value.
package store

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-variants/internal/types"
)

var (
	// ErrDraftNotFound is returned for unknown draft ids
	ErrDraftNotFound = errors.New("draft not found")
	// ErrSuggestionNotFound is returned for unknown suggestion ids within a draft
	ErrSuggestionNotFound = errors.New("suggestion not found")
	// ErrInvalidStatus is returned for statuses outside pending/accepted/rejected
	ErrInvalidStatus = errors.New("invalid suggestion status")
	// ErrNothingToUndo is returned by Undo on an empty history
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrDraftBusy is returned while a draft is being materialized
	ErrDraftBusy = errors.New("draft is being materialized")
)

// State is an immutable snapshot of the session. The zero value is empty and usable.
type State struct {
	drafts  map[string]types.VariantDraft
	order   []string
	resumes []types.ResumeRecord
}

// Draft returns a copy of the draft with the given id
func (s State) Draft(id string) (types.VariantDraft, bool) {
	d, ok := s.drafts[id]
	if !ok {
		return types.VariantDraft{}, false
	}
	return d.Clone(), true
}

// Drafts returns copies of all drafts in the order they were added
func (s State) Drafts() []types.VariantDraft {
	out := make([]types.VariantDraft, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.drafts[id].Clone())
	}
	return out
}

// Resumes returns copies of the records added during the session, newest last
func (s State) Resumes() []types.ResumeRecord {
	out := make([]types.ResumeRecord, len(s.resumes))
	for i, r := range s.resumes {
		out[i] = r.Clone()
	}
	return out
}

// Len reports the number of drafts
func (s State) Len() int { return len(s.order) }

// WithDraft returns a state holding a copy of d, replacing any draft with the same id
func (s State) WithDraft(d types.VariantDraft) State {
	next := s.copyDrafts()
	if _, exists := next.drafts[d.ID]; !exists {
		next.order = append(next.order, d.ID)
	}
	next.drafts[d.ID] = d.Clone()
	return next
}

// WithoutDraft returns a state without the draft
func (s State) WithoutDraft(id string) (State, error) {
	if _, ok := s.drafts[id]; !ok {
		return s, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}

	next := s.copyDrafts()
	delete(next.drafts, id)
	order := make([]string, 0, len(next.order))
	for _, existing := range next.order {
		if existing != id {
			order = append(order, existing)
		}
	}
	next.order = order
	return next, nil
}

// WithSuggestionStatus returns a state where one suggestion has the given status
func (s State) WithSuggestionStatus(draftID, suggestionID string, status types.SuggestionStatus) (State, error) {
	if !status.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	d, ok := s.Draft(draftID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrDraftNotFound, draftID)
	}
	i := d.Suggestion(suggestionID)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrSuggestionNotFound, suggestionID)
	}
	d.Suggestions[i].Status = status
	return s.WithDraft(d), nil
}

// WithAllSuggestionStatus returns a state where every suggestion of the draft has the given status
func (s State) WithAllSuggestionStatus(draftID string, status types.SuggestionStatus) (State, error) {
	if !status.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	d, ok := s.Draft(draftID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrDraftNotFound, draftID)
	}
	for i := range d.Suggestions {
		d.Suggestions[i].Status = status
	}
	return s.WithDraft(d), nil
}

// WithResume returns a state with rec appended to the session records
func (s State) WithResume(rec types.ResumeRecord) State {
	next := s
	next.resumes = make([]types.ResumeRecord, len(s.resumes), len(s.resumes)+1)
	copy(next.resumes, s.resumes)
	next.resumes = append(next.resumes, rec.Clone())
	return next
}

// Commit replaces a draft by the record materialized from it
func (s State) Commit(draftID string, rec types.ResumeRecord) (State, error) {
	next, err := s.WithoutDraft(draftID)
	if err != nil {
		return s, err
	}
	return next.WithResume(rec), nil
}

// copyDrafts returns s with its own draft map and order slice. Draft values
// are shared; they are never modified in place.
func (s State) copyDrafts() State {
	next := s
	next.drafts = make(map[string]types.VariantDraft, len(s.drafts)+1)
	for id, d := range s.drafts {
		next.drafts[id] = d
	}
	next.order = append([]string(nil), s.order...)
	return next
}
