// Package suggestions turns extracted job keywords into reviewable section changes.
package suggestions

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-variants/internal/types"
)

// Input is what a template sees about the target job
type Input struct {
	Keywords   []string
	JobContext types.JobContext
}

// Proposal is a template's suggested change before id and status are assigned
type Proposal struct {
	ChangeType types.ChangeType
	Summary    string
	Content    []string
	Keywords   []string
	Rationale  string
}

// Template proposes at most one change for sections of a single kind
type Template interface {
	Kind() types.SectionKind
	Propose(section types.ResumeSection, in Input) (Proposal, bool)
}

const (
	summaryKeywordCount = 3
	maxNewSkills        = 6
)

// SummaryTemplate appends a sentence built around the top job keywords
type SummaryTemplate struct{}

// Kind implements Template
func (SummaryTemplate) Kind() types.SectionKind { return types.SectionSummary }

// Propose implements Template
func (SummaryTemplate) Propose(_ types.ResumeSection, in Input) (Proposal, bool) {
	top := firstN(in.Keywords, summaryKeywordCount)
	if len(top) == 0 {
		return Proposal{}, false
	}

	role := "Candidate"
	if in.JobContext.Title != "" {
		role = in.JobContext.Title + " candidate"
	}

	lowered := make([]string, len(top))
	for i, kw := range top {
		lowered[i] = sentenceCase(kw)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s with hands-on depth in %s", role, NaturalJoin(lowered))
	if in.JobContext.Company != "" {
		fmt.Fprintf(&sb, ", ready to contribute to %s", in.JobContext.Company)
	}
	sb.WriteString(".")

	return Proposal{
		ChangeType: types.ChangeAddition,
		Summary:    "Add a summary sentence aimed at the posting's top keywords",
		Content:    []string{sb.String()},
		Keywords:   top,
		Rationale:  fmt.Sprintf("The posting emphasizes %s most often.", NaturalJoin(top)),
	}, true
}

var bulletTemplates = []string{
	"Led %s initiatives end to end, owning delivery from scoping through launch.",
	"Partnered with cross-functional teams to pilot %s improvements and measure their impact.",
	"Documented %s practices in a shared playbook adopted by the wider team.",
}

// ExperienceBulletsTemplate appends one bullet per top keyword
type ExperienceBulletsTemplate struct{}

// Kind implements Template
func (ExperienceBulletsTemplate) Kind() types.SectionKind { return types.SectionExperienceBullets }

// Propose implements Template
func (ExperienceBulletsTemplate) Propose(_ types.ResumeSection, in Input) (Proposal, bool) {
	used := firstN(in.Keywords, len(bulletTemplates))
	if len(used) == 0 {
		return Proposal{}, false
	}

	bullets := make([]string, len(used))
	for i, kw := range used {
		bullets[i] = fmt.Sprintf(bulletTemplates[i], sentenceCase(kw))
	}

	return Proposal{
		ChangeType: types.ChangeAddition,
		Summary:    fmt.Sprintf("Add %d bullets that echo the job's focus areas", len(bullets)),
		Content:    bullets,
		Keywords:   used,
		Rationale:  fmt.Sprintf("Bullets naming %s mirror the posting's language.", NaturalJoin(used)),
	}, true
}

// SkillsTemplate appends job keywords missing from the skills section
type SkillsTemplate struct{}

// Kind implements Template
func (SkillsTemplate) Kind() types.SectionKind { return types.SectionSkills }

// Propose implements Template
func (SkillsTemplate) Propose(section types.ResumeSection, in Input) (Proposal, bool) {
	existing := strings.ToLower(strings.Join(section.Content, "\n"))

	var missing []string
	for _, kw := range in.Keywords {
		if len(missing) == maxNewSkills {
			break
		}
		if strings.Contains(existing, strings.ToLower(kw)) {
			continue
		}
		missing = append(missing, kw)
	}
	if len(missing) == 0 {
		return Proposal{}, false
	}

	return Proposal{
		ChangeType: types.ChangeAddition,
		Summary:    fmt.Sprintf("Add %d skills from the job description", len(missing)),
		Content:    []string{strings.Join(missing, ", ")},
		Keywords:   missing,
		Rationale:  "These keywords appear in the posting but not in the skills section.",
	}, true
}

// NaturalJoin renders items as "a", "a and b" or "a, b, and c"
func NaturalJoin(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// sentenceCase lowercases a keyword for use mid-sentence unless it is an acronym
func sentenceCase(kw string) string {
	if kw == strings.ToUpper(kw) {
		return kw
	}
	return strings.ToLower(kw)
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
