// Package parsing extracts ranked keywords and job context from free-text job descriptions.
package parsing

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultKeywordLimit is the number of keywords kept when the caller has no preference
const DefaultKeywordLimit = 12

// minTokenLength drops short tokens ("go", "ml") before counting
const minTokenLength = 3

var nonKeywordChars = regexp.MustCompile(`[^a-z0-9\s-]`)

// stopWords covers English filler and job-posting boilerplate
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "you": true, "your": true,
	"our": true, "are": true, "will": true, "this": true, "that": true, "from": true,
	"have": true, "has": true, "into": true, "who": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "about": true, "across": true, "all": true,
	"also": true, "any": true, "can": true, "not": true, "but": true, "more": true,
	"most": true, "than": true, "their": true, "they": true, "them": true, "there": true,
	"these": true, "those": true, "was": true, "were": true, "been": true, "being": true,
	"its": true, "per": true, "such": true, "very": true, "able": true, "ability": true,
	"must": true, "may": true, "should": true, "would": true, "could": true, "etc": true,
	"experience": true, "team": true, "teams": true, "work": true, "working": true,
	"role": true, "job": true, "company": true, "position": true, "candidate": true,
	"candidates": true, "including": true, "opportunity": true, "responsibilities": true,
	"requirements": true, "required": true, "preferred": true, "qualifications": true,
	"years": true, "year": true, "plus": true, "strong": true, "skills": true,
	"knowledge": true, "looking": true, "join": true, "help": true, "new": true,
	"title": true, "location": true, "benefits": true, "salary": true, "apply": true,
	"equal": true, "employer": true, "offer": true, "within": true,
}

// ExtractKeywords ranks the non-trivial tokens of text by frequency and returns
// at most limit of them, title-cased. Ties keep first-seen order. Related forms
// ("manager", "managers") are counted separately and stray hyphens are kept.
func ExtractKeywords(text string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	normalized := nonKeywordChars.ReplaceAllString(strings.ToLower(text), " ")

	counts := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(normalized) {
		if utf8.RuneCountInString(token) < minTokenLength || stopWords[token] {
			continue
		}
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}

	keywords := make([]string, len(order))
	for i, token := range order {
		keywords[i] = TitleCase(token)
	}
	return keywords
}

// TitleCase capitalizes each hyphen-separated segment of token. Segments of at
// most two characters are treated as acronyms and upper-cased wholesale.
func TitleCase(token string) string {
	segments := strings.Split(token, "-")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if utf8.RuneCountInString(seg) <= 2 {
			segments[i] = strings.ToUpper(seg)
			continue
		}
		r, size := utf8.DecodeRuneInString(seg)
		segments[i] = string(unicode.ToUpper(r)) + seg[size:]
	}
	return strings.Join(segments, "-")
}
