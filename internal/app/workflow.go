package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/resume-variants/internal/capture"
	"github.com/jonathan/resume-variants/internal/library"
	"github.com/jonathan/resume-variants/internal/parsing"
	"github.com/jonathan/resume-variants/internal/types"
	"github.com/jonathan/resume-variants/internal/variants"
)

// Analysis is the keyword and context read of a job description
type Analysis struct {
	Keywords   []string         `json:"keywords"`
	JobContext types.JobContext `json:"job_context"`
}

// Analyze extracts keywords and guesses the job context without generating a draft
func (a *App) Analyze(description string) Analysis {
	limit := a.Config.KeywordLimit
	if limit <= 0 {
		limit = parsing.DefaultKeywordLimit
	}
	keywords := parsing.ExtractKeywords(description, limit)
	return Analysis{Keywords: keywords, JobContext: parsing.GuessJobContext(description, keywords)}
}

// CreateMaster stores a new master resume. A missing id is minted.
func (a *App) CreateMaster(ctx context.Context, req types.CreateResumeRequest) (types.ResumeRecord, error) {
	if err := req.Validate(); err != nil {
		return types.ResumeRecord{}, &variants.InputError{Cause: err}
	}

	rec := types.ResumeRecord{
		ID:        req.ID,
		Kind:      types.ResumeKindMaster,
		Name:      req.Name,
		CreatedAt: a.now().UTC(),
		Sections:  types.CloneSections(req.Sections),
	}
	if rec.ID == "" {
		rec.ID = a.newID()
	}
	if err := rec.Validate(); err != nil {
		return types.ResumeRecord{}, &variants.InputError{Cause: err}
	}
	if err := a.Library.Save(ctx, rec); err != nil {
		return types.ResumeRecord{}, err
	}

	a.Logger.Info("master resume created", slog.String("resume_id", rec.ID))
	return rec, nil
}

// GenerateDraft resolves the base resume, generates a draft and stores it in
// the session. onProgress may be nil.
func (a *App) GenerateDraft(ctx context.Context, input types.VariantGenerationInput, onProgress variants.ProgressFunc) (types.VariantDraft, error) {
	if input.BaseResumeID == "" {
		return types.VariantDraft{}, &variants.InputError{Cause: fmt.Errorf("base_resume_id is required")}
	}
	base, err := library.Resolve(ctx, a.Library, input.BaseResumeID)
	if err != nil {
		return types.VariantDraft{}, err
	}

	draft, err := a.Generator.Stream(ctx, input, base, onProgress)
	if err != nil {
		return types.VariantDraft{}, err
	}
	a.Drafts.PutDraft(*draft)

	a.Logger.Info("variant draft created",
		slog.String("draft_id", draft.ID),
		slog.String("base_resume_id", draft.BaseResumeID),
		slog.Int("suggestions", len(draft.Suggestions)),
		slog.Int("open_drafts", a.Drafts.Snapshot().Len()),
	)
	return draft.Clone(), nil
}

// Preview returns the sections a draft would materialize to
func (a *App) Preview(draftID string, opts variants.MaterializeOptions) ([]types.ResumeSection, error) {
	draft, err := a.Drafts.Draft(draftID)
	if err != nil {
		return nil, err
	}
	return variants.BuildVariantSections(draft, opts), nil
}

// Materialize freezes a draft into a variant, persists it and destroys the draft.
// The draft is claimed for the duration, so concurrent calls on one draft save
// at most one variant. The draft survives when saving fails.
func (a *App) Materialize(ctx context.Context, draftID string, opts variants.MaterializeOptions) (types.ResumeRecord, error) {
	draft, err := a.Drafts.Claim(draftID)
	if err != nil {
		return types.ResumeRecord{}, err
	}

	rec := variants.Materialize(draft, opts, a.now().UTC(), a.newID())
	if err := a.Library.Save(ctx, rec); err != nil {
		a.Drafts.Release(draftID)
		return types.ResumeRecord{}, fmt.Errorf("failed to save variant: %w", err)
	}
	if err := a.Drafts.Commit(draftID, rec); err != nil {
		a.Drafts.Release(draftID)
		return types.ResumeRecord{}, err
	}

	a.Logger.Info("variant materialized",
		slog.String("draft_id", draftID),
		slog.String("resume_id", rec.ID),
		slog.Int("suggestions_applied", rec.Metrics.SuggestionsApplied),
	)
	return rec, nil
}

// Capture fetches and cleans a job posting
func (a *App) Capture(ctx context.Context, url string) (*capture.Posting, error) {
	return a.Capturer.FromURL(ctx, url)
}
