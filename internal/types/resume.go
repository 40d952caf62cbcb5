// Package types provides type definitions for structured data used throughout the resume-variants system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ResumeKind distinguishes the canonical resume from its job-targeted derivatives
type ResumeKind string

const (
	// ResumeKindMaster is the user-maintained resume; never auto-edited
	ResumeKindMaster ResumeKind = "master"
	// ResumeKindVariant is an immutable derivative of a master or another variant
	ResumeKindVariant ResumeKind = "variant"
)

// SectionKind is the fixed taxonomy of resume content blocks
type SectionKind string

// Section kinds
const (
	SectionSummary            SectionKind = "summary"
	SectionExperienceBullets  SectionKind = "experience_bullets"
	SectionExperienceMetadata SectionKind = "experience_metadata"
	SectionSkills             SectionKind = "skills"
	SectionEducation          SectionKind = "education"
)

// SectionKinds lists every known section kind in display order
func SectionKinds() []SectionKind {
	return []SectionKind{
		SectionSummary,
		SectionExperienceBullets,
		SectionExperienceMetadata,
		SectionSkills,
		SectionEducation,
	}
}

// Valid reports whether k is a known section kind
func (k SectionKind) Valid() bool {
	for _, known := range SectionKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// ResumeSection is one content block of a resume
type ResumeSection struct {
	ID              string      `json:"id" validate:"required"`
	Kind            SectionKind `json:"kind" validate:"required,oneof=summary experience_bullets experience_metadata skills education"`
	Label           string      `json:"label"`
	Content         []string    `json:"content"`
	AllowAdaptation *bool       `json:"allow_adaptation,omitempty"` // nil means adaptable
	HelperText      string      `json:"helper_text,omitempty"`
}

// Adaptable reports whether generated suggestions may target this section.
// Only an explicit false protects a section.
func (s ResumeSection) Adaptable() bool {
	return s.AllowAdaptation == nil || *s.AllowAdaptation
}

// Clone returns a deep copy of the section
func (s ResumeSection) Clone() ResumeSection {
	out := s
	out.Content = cloneStrings(s.Content)
	if s.AllowAdaptation != nil {
		allow := *s.AllowAdaptation
		out.AllowAdaptation = &allow
	}
	return out
}

// CloneSections deep-copies a section list
func CloneSections(sections []ResumeSection) []ResumeSection {
	if sections == nil {
		return nil
	}
	out := make([]ResumeSection, len(sections))
	for i, s := range sections {
		out[i] = s.Clone()
	}
	return out
}

// JobContext is the partially-resolved context of a job description.
// Empty fields were not resolved.
type JobContext struct {
	Title    string   `json:"title,omitempty"`
	Company  string   `json:"company,omitempty"`
	Location string   `json:"location,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Clone returns a deep copy of the context
func (c JobContext) Clone() JobContext {
	out := c
	out.Keywords = cloneStrings(c.Keywords)
	return out
}

// ResumeMetrics summarizes how well a variant covers its job keywords
type ResumeMetrics struct {
	KeywordCoverage    float64  `json:"keyword_coverage"`
	MatchedKeywords    []string `json:"matched_keywords"`
	MissingKeywords    []string `json:"missing_keywords"`
	SuggestionsApplied int      `json:"suggestions_applied"`
}

// ResumeRecord is a persisted resume, master or variant. Records are immutable once created.
type ResumeRecord struct {
	ID           string          `json:"id"`
	Kind         ResumeKind      `json:"kind"`
	Name         string          `json:"name"`
	CreatedAt    time.Time       `json:"created_at"`
	BaseResumeID string          `json:"base_resume_id,omitempty"`
	Sections     []ResumeSection `json:"sections"`
	JobContext   *JobContext     `json:"job_context,omitempty"`
	Metrics      *ResumeMetrics  `json:"metrics,omitempty"`
}

// Clone returns a deep copy of the record
func (r ResumeRecord) Clone() ResumeRecord {
	out := r
	out.Sections = CloneSections(r.Sections)
	if r.JobContext != nil {
		jc := r.JobContext.Clone()
		out.JobContext = &jc
	}
	if r.Metrics != nil {
		m := *r.Metrics
		m.MatchedKeywords = cloneStrings(r.Metrics.MatchedKeywords)
		m.MissingKeywords = cloneStrings(r.Metrics.MissingKeywords)
		out.Metrics = &m
	}
	return out
}

// Validate checks the structural rules of a record:
// masters have no base, variants always reference one, section ids are unique.
func (r ResumeRecord) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if r.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	switch r.Kind {
	case ResumeKindMaster:
		if r.BaseResumeID != "" {
			return &ValidationError{Field: "base_resume_id", Message: "master resumes cannot reference a base resume"}
		}
	case ResumeKindVariant:
		if r.BaseResumeID == "" {
			return &ValidationError{Field: "base_resume_id", Message: "variants must reference a base resume"}
		}
		if r.BaseResumeID == r.ID {
			return &ValidationError{Field: "base_resume_id", Message: "variant cannot reference itself"}
		}
	default:
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown resume kind %q", r.Kind)}
	}

	seen := make(map[string]bool, len(r.Sections))
	for i, s := range r.Sections {
		if s.ID == "" {
			return &ValidationError{Field: fmt.Sprintf("sections[%d].id", i), Message: "is required"}
		}
		if seen[s.ID] {
			return &ValidationError{Field: fmt.Sprintf("sections[%d].id", i), Message: fmt.Sprintf("duplicate section id %q", s.ID)}
		}
		seen[s.ID] = true
		if !s.Kind.Valid() {
			return &ValidationError{Field: fmt.Sprintf("sections[%d].kind", i), Message: fmt.Sprintf("unknown section kind %q", s.Kind)}
		}
	}
	return nil
}

// ValidationError describes a structural problem with a record or request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// CreateResumeRequest is the body accepted when importing a master resume
type CreateResumeRequest struct {
	ID       string          `json:"id,omitempty" validate:"omitempty,max=100"`
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Sections []ResumeSection `json:"sections" validate:"required,min=1,dive"`
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
