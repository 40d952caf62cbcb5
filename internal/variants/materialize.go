package variants

import (
	"strings"
	"time"

	"github.com/jonathan/resume-variants/internal/types"
)

// MaterializeOptions selects which suggestions are applied
type MaterializeOptions struct {
	// IncludePending also applies suggestions the user has not reviewed yet
	IncludePending bool
}

func (o MaterializeOptions) applies(s types.SectionSuggestion) bool {
	switch s.Status {
	case types.StatusAccepted:
		return true
	case types.StatusPending:
		return o.IncludePending
	default:
		return false
	}
}

// BuildVariantSections returns the draft's sections with the selected
// suggestions applied in order. Additions append their lines; replacements
// swap the content wholesale, so a later replacement wins over earlier edits.
// Rejected suggestions never apply. The draft is not modified.
func BuildVariantSections(draft types.VariantDraft, opts MaterializeOptions) []types.ResumeSection {
	out := make([]types.ResumeSection, len(draft.Sections))
	index := make(map[string]int, len(draft.Sections))
	for i, s := range draft.Sections {
		out[i] = s.Clone()
		index[s.ID] = i
	}

	for _, sg := range draft.Suggestions {
		if !opts.applies(sg) {
			continue
		}
		i, ok := index[sg.SectionID]
		if !ok {
			continue
		}
		switch sg.ChangeType {
		case types.ChangeReplacement:
			out[i].Content = append([]string{}, sg.Content...)
		case types.ChangeAddition:
			out[i].Content = append(out[i].Content, sg.Content...)
		}
	}
	return out
}

// AppliedCount reports how many suggestions BuildVariantSections would apply
func AppliedCount(draft types.VariantDraft, opts MaterializeOptions) int {
	index := make(map[string]bool, len(draft.Sections))
	for _, s := range draft.Sections {
		index[s.ID] = true
	}

	n := 0
	for _, sg := range draft.Suggestions {
		if opts.applies(sg) && index[sg.SectionID] {
			n++
		}
	}
	return n
}

// Materialize freezes a draft into an immutable variant record
func Materialize(draft types.VariantDraft, opts MaterializeOptions, now time.Time, id string) types.ResumeRecord {
	sections := BuildVariantSections(draft, opts)
	jobContext := draft.JobContext.Clone()
	metrics := ComputeMetrics(sections, jobContext.Keywords, AppliedCount(draft, opts))

	return types.ResumeRecord{
		ID:           id,
		Kind:         types.ResumeKindVariant,
		Name:         draft.Name,
		CreatedAt:    now,
		BaseResumeID: draft.BaseResumeID,
		Sections:     sections,
		JobContext:   &jobContext,
		Metrics:      &metrics,
	}
}

// ComputeMetrics measures how many job keywords the final content mentions.
// Matching is case-insensitive substring containment over every section.
func ComputeMetrics(sections []types.ResumeSection, keywords []string, applied int) types.ResumeMetrics {
	var sb strings.Builder
	for _, s := range sections {
		for _, line := range s.Content {
			sb.WriteString(strings.ToLower(line))
			sb.WriteByte('\n')
		}
	}
	text := sb.String()

	metrics := types.ResumeMetrics{
		MatchedKeywords:    []string{},
		MissingKeywords:    []string{},
		SuggestionsApplied: applied,
	}
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			metrics.MatchedKeywords = append(metrics.MatchedKeywords, kw)
		} else {
			metrics.MissingKeywords = append(metrics.MissingKeywords, kw)
		}
	}
	if len(keywords) > 0 {
		metrics.KeywordCoverage = float64(len(metrics.MatchedKeywords)) / float64(len(keywords))
	}
	return metrics
}
