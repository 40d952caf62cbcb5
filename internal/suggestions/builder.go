package suggestions

import (
	"github.com/google/uuid"

	"github.com/jonathan/resume-variants/internal/types"
)

// Builder dispatches adaptable sections to the template registered for their kind
type Builder struct {
	templates map[types.SectionKind]Template
	newID     func() string
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithTemplate registers t, replacing any template for the same kind
func WithTemplate(t Template) BuilderOption {
	return func(b *Builder) {
		b.templates[t.Kind()] = t
	}
}

// WithIDGenerator overrides how suggestion ids are minted
func WithIDGenerator(fn func() string) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.newID = fn
		}
	}
}

// DefaultTemplates returns the built-in heuristic templates.
// Education and experience metadata are factual and have none.
func DefaultTemplates() []Template {
	return []Template{SummaryTemplate{}, ExperienceBulletsTemplate{}, SkillsTemplate{}}
}

// NewBuilder creates a builder with the default templates
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		templates: make(map[types.SectionKind]Template),
		newID:     uuid.NewString,
	}
	for _, t := range DefaultTemplates() {
		b.templates[t.Kind()] = t
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Supports reports whether the builder has a template for kind
func (b *Builder) Supports(kind types.SectionKind) bool {
	_, ok := b.templates[kind]
	return ok
}

// Build proposes pending suggestions for the sections whose kind is listed in
// kinds. Sections that disallow adaptation are never offered to a template.
// Output follows section order with at most one suggestion per section.
func (b *Builder) Build(sections []types.ResumeSection, kinds []types.SectionKind, keywords []string, jobContext types.JobContext) []types.SectionSuggestion {
	in := Input{Keywords: keywords, JobContext: jobContext}
	out := []types.SectionSuggestion{}

	for _, section := range AdaptableSections(sections, kinds) {
		tmpl, ok := b.templates[section.Kind]
		if !ok {
			continue
		}
		proposal, ok := tmpl.Propose(section, in)
		if !ok {
			continue
		}
		out = append(out, b.newSuggestion(section.ID, proposal))
	}
	return out
}

func (b *Builder) newSuggestion(sectionID string, p Proposal) types.SectionSuggestion {
	return newSuggestion(b.newID(), sectionID, p)
}

func newSuggestion(id, sectionID string, p Proposal) types.SectionSuggestion {
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return types.SectionSuggestion{
		ID:         id,
		SectionID:  sectionID,
		ChangeType: p.ChangeType,
		Summary:    p.Summary,
		Content:    p.Content,
		Status:     types.StatusPending,
		Keywords:   keywords,
		Rationale:  p.Rationale,
	}
}

// AdaptableSections returns the sections selected by kinds that allow adaptation
func AdaptableSections(sections []types.ResumeSection, kinds []types.SectionKind) []types.ResumeSection {
	selected := make(map[types.SectionKind]bool, len(kinds))
	for _, k := range kinds {
		selected[k] = true
	}

	var out []types.ResumeSection
	for _, s := range sections {
		if !selected[s.Kind] || !s.Adaptable() {
			continue
		}
		out = append(out, s)
	}
	return out
}
