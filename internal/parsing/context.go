package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-variants/internal/types"
)

// maxHeaderLength bounds the first line considered as a "Title @ Company" style header
const maxHeaderLength = 90

var (
	companyLine  = regexp.MustCompile(`(?i)company[:\-]\s*(.+)`)
	titleLine    = regexp.MustCompile(`(?i)(?:role|title|position)[:\-]\s*(.+)`)
	locationLine = regexp.MustCompile(`(?i)location[:\-]\s*(.+)`)

	atHeader     = regexp.MustCompile(`^(.+?)\s+@\s+(.+)$`)
	hiringHeader = regexp.MustCompile(`(?i)hiring\s+(?:a|an|the)\s+(.+)`)

	orgSuffix = regexp.MustCompile(`(?i)(labs|studio|systems|inc|llc|corporation|technologies|company|group|holdings|services|works)$`)
)

// GuessJobContext infers title, company and location from a job description.
// Explicit "Company:", "Role:"/"Title:"/"Position:" and "Location:" lines win;
// the first non-empty line is used as a header fallback for the title, and the
// ranked keywords are scanned for an organization-like name. Fields that cannot
// be resolved are left empty.
func GuessJobContext(description string, keywords []string) types.JobContext {
	var ctx types.JobContext
	lines := nonEmptyLines(description)

	for _, line := range lines {
		if ctx.Company == "" {
			if m := companyLine.FindStringSubmatch(line); m != nil {
				ctx.Company = strings.TrimSpace(m[1])
			}
		}
		if ctx.Title == "" {
			if m := titleLine.FindStringSubmatch(line); m != nil {
				ctx.Title = strings.TrimSpace(m[1])
			}
		}
		if ctx.Location == "" {
			if m := locationLine.FindStringSubmatch(line); m != nil {
				ctx.Location = strings.TrimSpace(m[1])
			}
		}
		if ctx.Company != "" && ctx.Title != "" && ctx.Location != "" {
			break
		}
	}

	if ctx.Title == "" && len(lines) > 0 {
		guessFromHeader(&ctx, lines[0])
	}

	if ctx.Company == "" {
		ctx.Company = companyFromKeywords(keywords)
	}

	return ctx
}

func guessFromHeader(ctx *types.JobContext, header string) {
	if utf8.RuneCountInString(header) > maxHeaderLength {
		return
	}
	if m := atHeader.FindStringSubmatch(header); m != nil {
		ctx.Title = strings.TrimSpace(m[1])
		if ctx.Company == "" {
			ctx.Company = strings.TrimSpace(m[2])
		}
		return
	}
	if m := hiringHeader.FindStringSubmatch(header); m != nil {
		ctx.Title = strings.TrimRight(strings.TrimSpace(m[1]), ".!")
		return
	}
	ctx.Title = header
}

// companyFromKeywords adopts the first keyword that ends in an organization
// suffix. A keyword that is nothing but the suffix ("Systems") names no
// organization and is skipped.
func companyFromKeywords(keywords []string) string {
	for _, kw := range keywords {
		loc := orgSuffix.FindStringIndex(kw)
		if loc == nil || loc[0] == 0 {
			continue
		}
		return kw
	}
	return ""
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
