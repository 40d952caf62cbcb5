// Package variants assembles job-targeted drafts from a base resume and
// materializes reviewed drafts into immutable variant records.
package variants

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-variants/internal/parsing"
	"github.com/jonathan/resume-variants/internal/suggestions"
	"github.com/jonathan/resume-variants/internal/types"
)

// Stage names a step of draft generation
type Stage string

// Generation stages, in emission order
const (
	StageKeywords    Stage = "keywords"
	StageContext     Stage = "context"
	StageSuggestions Stage = "suggestions"
	StageComplete    Stage = "complete"
)

// ProgressEvent is emitted after each generation stage
type ProgressEvent struct {
	Stage       Stage               `json:"stage"`
	Keywords    []string            `json:"keywords,omitempty"`
	JobContext  *types.JobContext   `json:"job_context,omitempty"`
	Suggestions int                 `json:"suggestions,omitempty"`
	Draft       *types.VariantDraft `json:"draft,omitempty"`
}

// ProgressFunc receives progress events on the generating goroutine
type ProgressFunc func(ProgressEvent)

// Generator builds VariantDrafts
type Generator struct {
	provider     suggestions.Provider
	now          func() time.Time
	newID        func() string
	keywordLimit int
	timeout      time.Duration
	logger       *slog.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithProvider sets the suggestion provider (default: heuristic)
func WithProvider(p suggestions.Provider) Option {
	return func(g *Generator) {
		if p != nil {
			g.provider = p
		}
	}
}

// WithClock overrides the creation-time source
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDGenerator overrides how draft ids are minted
func WithIDGenerator(fn func() string) Option {
	return func(g *Generator) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// WithKeywordLimit sets how many keywords are extracted per job description
func WithKeywordLimit(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.keywordLimit = n
		}
	}
}

// WithTimeout bounds each generation; zero means no bound beyond ctx
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a Generator with heuristic suggestions by default
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		provider:     suggestions.NewHeuristicProvider(nil),
		now:          time.Now,
		newID:        uuid.NewString,
		keywordLimit: parsing.DefaultKeywordLimit,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateDraft builds a draft for input against base. base is never modified.
func (g *Generator) GenerateDraft(ctx context.Context, input types.VariantGenerationInput, base *types.ResumeRecord) (*types.VariantDraft, error) {
	return g.Stream(ctx, input, base, nil)
}

// Stream is GenerateDraft with progress reporting. onProgress may be nil.
func (g *Generator) Stream(ctx context.Context, input types.VariantGenerationInput, base *types.ResumeRecord, onProgress ProgressFunc) (*types.VariantDraft, error) {
	if base == nil {
		return nil, ErrNoBaseResume
	}
	if err := input.Validate(); err != nil {
		return nil, &InputError{Cause: err}
	}
	if base.ID != input.BaseResumeID {
		return nil, &BaseMismatchError{Requested: input.BaseResumeID, Resolved: base.ID}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	emit := func(ev ProgressEvent) {
		if onProgress != nil {
			onProgress(ev)
		}
	}

	keywords := parsing.ExtractKeywords(input.JobDescription, g.keywordLimit)
	emit(ProgressEvent{Stage: StageKeywords, Keywords: keywords})

	jobContext := parsing.GuessJobContext(input.JobDescription, keywords)
	jobContext.Keywords = keywords
	emit(ProgressEvent{Stage: StageContext, JobContext: &jobContext})

	sections := types.CloneSections(base.Sections)
	if sections == nil {
		sections = []types.ResumeSection{}
	}

	suggested, err := g.provider.Generate(ctx, suggestions.Request{
		JobDescription:  input.JobDescription,
		Sections:        types.CloneSections(sections),
		SectionsToAdapt: input.SectionsToAdapt,
		Keywords:        keywords,
		JobContext:      jobContext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}
	if suggested == nil {
		suggested = []types.SectionSuggestion{}
	}
	emit(ProgressEvent{Stage: StageSuggestions, Suggestions: len(suggested)})

	createdAt := g.now()
	draft := &types.VariantDraft{
		ID:             g.newID(),
		Name:           DraftName(input.PresetVariantName, jobContext, createdAt),
		BaseResumeID:   base.ID,
		CreatedAt:      createdAt,
		JobDescription: input.JobDescription,
		JobContext:     jobContext,
		Sections:       sections,
		Suggestions:    suggested,
	}
	if err := draft.CheckReferences(); err != nil {
		return nil, fmt.Errorf("provider returned an invalid suggestion: %w", err)
	}

	g.logger.Debug("variant draft generated",
		slog.String("draft_id", draft.ID),
		slog.String("base_resume_id", base.ID),
		slog.Int("keywords", len(keywords)),
		slog.Int("suggestions", len(suggested)),
	)

	emit(ProgressEvent{Stage: StageComplete, Draft: draft, Suggestions: len(suggested)})
	return draft, nil
}
