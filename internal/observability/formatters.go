// Package observability provides logging setup and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-variants/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "..."
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintAnalysis outputs the extracted keywords and guessed job context
func (p *Printer) PrintAnalysis(keywords []string, jc types.JobContext) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orDash(jc.Title)))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", orDash(jc.Company)))
	sb.WriteString(fmt.Sprintf("Location: %s\n", orDash(jc.Location)))
	sb.WriteString("\n")

	if len(keywords) == 0 {
		sb.WriteString("No keywords found")
	} else {
		sb.WriteString(fmt.Sprintf("Keywords (%d):\n", len(keywords)))
		for i, kw := range keywords {
			sb.WriteString(fmt.Sprintf("  %2d. %s\n", i+1, kw))
		}
	}

	p.printBox("JOB ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDraft outputs a draft summary followed by its suggestions
func (p *Printer) PrintDraft(draft *types.VariantDraft) {
	if draft == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", draft.Name))
	sb.WriteString(fmt.Sprintf("Draft:    %s\n", draft.ID))
	sb.WriteString(fmt.Sprintf("Base:     %s\n", draft.BaseResumeID))
	sb.WriteString(fmt.Sprintf("Sections: %d\n", len(draft.Sections)))
	sb.WriteString(fmt.Sprintf("Keywords: %s", strings.Join(draft.JobContext.Keywords, ", ")))

	p.printBox("VARIANT DRAFT", sb.String())
	p.PrintSuggestions(draft.Suggestions)
}

// PrintSuggestions outputs the first few suggestions with their status
func (p *Printer) PrintSuggestions(suggestions []types.SectionSuggestion) {
	if len(suggestions) == 0 {
		p.printBox("SUGGESTIONS", "No suggestions")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total suggestions: %d\n\n", len(suggestions)))

	count := min(len(suggestions), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := suggestions[i]
		sb.WriteString(fmt.Sprintf("%s %s [%s]\n", statusMark(s.Status), s.SectionID, s.ChangeType))
		sb.WriteString(fmt.Sprintf("  %s\n", s.Summary))
		for _, line := range s.Content {
			sb.WriteString(fmt.Sprintf("  + %s\n", line))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(suggestions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more suggestions", len(suggestions)-maxItemsToShow))
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

func statusMark(status types.SuggestionStatus) string {
	switch status {
	case types.StatusAccepted:
		return "✓"
	case types.StatusRejected:
		return "✗"
	default:
		return "•"
	}
}

// PrintMetrics outputs a variant's keyword coverage
func (p *Printer) PrintMetrics(rec types.ResumeRecord) {
	if rec.Metrics == nil {
		return
	}
	m := rec.Metrics

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Variant:  %s\n", rec.Name))
	sb.WriteString(fmt.Sprintf("Coverage: %.0f%%\n", m.KeywordCoverage*100))
	sb.WriteString(fmt.Sprintf("Applied:  %d suggestions\n", m.SuggestionsApplied))
	if len(m.MissingKeywords) > 0 {
		sb.WriteString(fmt.Sprintf("Missing:  %s\n", strings.Join(m.MissingKeywords, ", ")))
	}

	p.printBox("VARIANT METRICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumes outputs a compact resume listing
func (p *Printer) PrintResumes(records []types.ResumeRecord) {
	if len(records) == 0 {
		p.printBox("RESUMES", "No resumes")
		return
	}

	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%-7s %s  %s  [%s]\n", r.Kind, r.CreatedAt.Format("2006-01-02"), r.Name, r.ID))
	}
	p.printBox(fmt.Sprintf("RESUMES (%d)", len(records)), strings.TrimSuffix(sb.String(), "\n"))
}
