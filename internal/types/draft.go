package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ChangeType describes how a suggestion modifies its section
type ChangeType string

const (
	// ChangeAddition appends the suggestion content to the section
	ChangeAddition ChangeType = "addition"
	// ChangeReplacement replaces the section content outright
	ChangeReplacement ChangeType = "replacement"
)

// SuggestionStatus is the user-driven review state of a suggestion
type SuggestionStatus string

// Suggestion statuses
const (
	StatusPending  SuggestionStatus = "pending"
	StatusAccepted SuggestionStatus = "accepted"
	StatusRejected SuggestionStatus = "rejected"
)

// Valid reports whether s is a known status
func (s SuggestionStatus) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// SectionSuggestion is a proposed content change to one section of a draft
type SectionSuggestion struct {
	ID         string           `json:"id"`
	SectionID  string           `json:"section_id"`
	ChangeType ChangeType       `json:"change_type"`
	Summary    string           `json:"summary"`
	Content    []string         `json:"content"`
	Status     SuggestionStatus `json:"status"`
	Keywords   []string         `json:"keywords"`
	Rationale  string           `json:"rationale,omitempty"`
}

// Clone returns a deep copy of the suggestion
func (s SectionSuggestion) Clone() SectionSuggestion {
	out := s
	out.Content = cloneStrings(s.Content)
	out.Keywords = cloneStrings(s.Keywords)
	return out
}

// VariantDraft is an in-progress, not-yet-saved variant under review
type VariantDraft struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	BaseResumeID   string              `json:"base_resume_id"`
	CreatedAt      time.Time           `json:"created_at"`
	JobDescription string              `json:"job_description"`
	JobContext     JobContext          `json:"job_context"`
	Sections       []ResumeSection     `json:"sections"`
	Suggestions    []SectionSuggestion `json:"suggestions"`
}

// Clone returns a deep copy of the draft
func (d VariantDraft) Clone() VariantDraft {
	out := d
	out.JobContext = d.JobContext.Clone()
	out.Sections = CloneSections(d.Sections)
	if d.Suggestions != nil {
		out.Suggestions = make([]SectionSuggestion, len(d.Suggestions))
		for i, s := range d.Suggestions {
			out.Suggestions[i] = s.Clone()
		}
	}
	return out
}

// Suggestion returns the index of the suggestion with the given id, or -1
func (d VariantDraft) Suggestion(id string) int {
	for i, s := range d.Suggestions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// CheckReferences verifies every suggestion targets a section of this draft
func (d VariantDraft) CheckReferences() error {
	ids := make(map[string]bool, len(d.Sections))
	for _, s := range d.Sections {
		ids[s.ID] = true
	}
	for i, s := range d.Suggestions {
		if !ids[s.SectionID] {
			return &ValidationError{
				Field:   fmt.Sprintf("suggestions[%d].section_id", i),
				Message: fmt.Sprintf("section %q does not exist in draft", s.SectionID),
			}
		}
	}
	return nil
}

// VariantGenerationInput is the caller contract for draft generation
type VariantGenerationInput struct {
	JobDescription    string        `json:"job_description"`
	BaseResumeID      string        `json:"base_resume_id" validate:"required"`
	SectionsToAdapt   []SectionKind `json:"sections_to_adapt" validate:"dive,oneof=summary experience_bullets experience_metadata skills education"`
	PresetVariantName string        `json:"preset_variant_name,omitempty" validate:"max=200"`
}

// Validate validates the VariantGenerationInput using the validator.
func (in *VariantGenerationInput) Validate() error {
	validate := validator.New()
	return validate.Struct(in)
}
