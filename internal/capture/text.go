package capture

import (
	"regexp"
	"strings"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t\p{Zs}]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// bulletMarks are rewritten to "- " so lists survive as plain text
var bulletMarks = []string{"• ", "· ", "▪ ", "◦ ", "* "}

// CleanText normalizes posting text while keeping its line structure:
// line endings become LF, runs of spaces collapse, bullets become "- ",
// and at most one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	out := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	for _, mark := range bulletMarks {
		if strings.HasPrefix(line, mark) {
			return "- " + strings.TrimSpace(line[len(mark):])
		}
	}
	return line
}
