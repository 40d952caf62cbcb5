package suggestions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-variants/internal/llm"
	"github.com/jonathan/resume-variants/internal/prompts"
	"github.com/jonathan/resume-variants/internal/schemas"
	"github.com/jonathan/resume-variants/internal/types"
)

const (
	defaultConcurrency   = 3
	maxLLMSuggestions    = 3
	maxPromptDescription = 8000
	suggestSectionPrompt = "suggest-section"
	variantsPromptsFile  = "variants.json"
)

// LLMProvider asks a language model for suggestions, one request per section
type LLMProvider struct {
	client      llm.Client
	tier        llm.ModelTier
	concurrency int
	newID       func() string
	scope       *Builder
}

// LLMOption configures an LLMProvider
type LLMOption func(*LLMProvider)

// WithTier selects the model tier used for every request
func WithTier(tier llm.ModelTier) LLMOption {
	return func(p *LLMProvider) { p.tier = tier }
}

// WithConcurrency bounds the number of in-flight section requests
func WithConcurrency(n int) LLMOption {
	return func(p *LLMProvider) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLLMIDGenerator overrides how suggestion ids are minted
func WithLLMIDGenerator(fn func() string) LLMOption {
	return func(p *LLMProvider) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// WithScope sends only the section kinds b has a template for
func WithScope(b *Builder) LLMOption {
	return func(p *LLMProvider) {
		if b != nil {
			p.scope = b
		}
	}
}

// NewLLMProvider creates a provider over client. Only kinds that have a
// heuristic template are sent to the model; factual sections stay untouched.
func NewLLMProvider(client llm.Client, opts ...LLMOption) *LLMProvider {
	p := &LLMProvider{
		client:      client,
		tier:        llm.TierStandard,
		concurrency: defaultConcurrency,
		newID:       uuid.NewString,
		scope:       NewBuilder(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type llmReply struct {
	Suggestions []struct {
		ChangeType types.ChangeType `json:"change_type"`
		Summary    string           `json:"summary"`
		Content    []string         `json:"content"`
		Keywords   []string         `json:"keywords"`
		Rationale  string           `json:"rationale"`
	} `json:"suggestions"`
}

// Generate implements Provider. Any failed section fails the whole call.
func (p *LLMProvider) Generate(ctx context.Context, req Request) ([]types.SectionSuggestion, error) {
	var sections []types.ResumeSection
	for _, s := range AdaptableSections(req.Sections, req.SectionsToAdapt) {
		if p.scope.Supports(s.Kind) {
			sections = append(sections, s)
		}
	}

	results := make([][]types.SectionSuggestion, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, section := range sections {
		g.Go(func() error {
			out, err := p.suggestForSection(gctx, req, section)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []types.SectionSuggestion{}
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (p *LLMProvider) suggestForSection(ctx context.Context, req Request, section types.ResumeSection) ([]types.SectionSuggestion, error) {
	tmpl, err := prompts.Get(variantsPromptsFile, suggestSectionPrompt)
	if err != nil {
		return nil, &GenerationError{SectionID: section.ID, Message: "prompt unavailable", Cause: err}
	}

	prompt := prompts.Format(tmpl, map[string]string{
		"Title":          orUnknown(req.JobContext.Title),
		"Company":        orUnknown(req.JobContext.Company),
		"Keywords":       strings.Join(req.Keywords, ", "),
		"SectionKind":    string(section.Kind),
		"SectionLabel":   section.Label,
		"SectionContent": strings.Join(section.Content, "\n"),
		"JobDescription": truncate(req.JobDescription, maxPromptDescription),
		"MaxSuggestions": fmt.Sprint(maxLLMSuggestions),
	})

	text, err := p.client.GenerateJSON(ctx, prompt, p.tier)
	if err != nil {
		return nil, &GenerationError{SectionID: section.ID, Message: "model call failed", Cause: err}
	}
	text = llm.CleanJSONBlock(text)

	if err := schemas.ValidateBytes(schemas.LLMSuggestions, []byte(text)); err != nil {
		return nil, &GenerationError{SectionID: section.ID, Message: "reply does not match schema", Cause: err}
	}

	var reply llmReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return nil, &GenerationError{SectionID: section.ID, Message: "reply is not valid JSON", Cause: err}
	}

	out := make([]types.SectionSuggestion, 0, len(reply.Suggestions))
	for _, s := range reply.Suggestions {
		out = append(out, newSuggestion(p.newID(), section.ID, Proposal{
			ChangeType: s.ChangeType,
			Summary:    s.Summary,
			Content:    s.Content,
			Keywords:   s.Keywords,
			Rationale:  s.Rationale,
		}))
	}
	return out, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "(not stated)"
	}
	return s
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
