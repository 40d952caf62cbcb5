package suggestions

import (
	"context"

	"github.com/jonathan/resume-variants/internal/types"
)

// Request is everything a provider needs to propose changes for one draft
type Request struct {
	JobDescription  string
	Sections        []types.ResumeSection
	SectionsToAdapt []types.SectionKind
	Keywords        []string
	JobContext      types.JobContext
}

// Provider produces pending suggestions for a draft under construction
type Provider interface {
	Generate(ctx context.Context, req Request) ([]types.SectionSuggestion, error)
}

// HeuristicProvider is the deterministic, offline Provider backed by a Builder
type HeuristicProvider struct {
	builder *Builder
}

// NewHeuristicProvider wraps b, or a default Builder when b is nil
func NewHeuristicProvider(b *Builder) *HeuristicProvider {
	if b == nil {
		b = NewBuilder()
	}
	return &HeuristicProvider{builder: b}
}

// Generate implements Provider. It only fails when ctx is already done.
func (p *HeuristicProvider) Generate(ctx context.Context, req Request) ([]types.SectionSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.builder.Build(req.Sections, req.SectionsToAdapt, req.Keywords, req.JobContext), nil
}
