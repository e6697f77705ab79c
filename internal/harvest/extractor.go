package harvest

import (
	"regexp"
	"strings"
)

// candidatePattern matches phone-number-like digit runs: an optional leading
// plus and country code, an optionally parenthesized group, and further digit
// groups joined by spaces, dots, or hyphens.
var candidatePattern = regexp.MustCompile(`\+?[0-9]{0,3}[\s.\-]?\(?[0-9]{2,4}\)?(?:[\s.\-]?[0-9]{1,4}){1,4}`)

// minCandidateSpan is the minimum total character span (digits plus
// separators) a match must cover to be considered a candidate.
const minCandidateSpan = 10

// Extractor scans free text for candidate identifier strings. It is purely
// syntactic; every returned candidate still has to pass validation.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns every non-overlapping candidate in text, in left-to-right
// order. Empty or non-matching text yields no candidates.
func (e *Extractor) Extract(text string) []string {
	if text == "" {
		return nil
	}
	matches := candidatePattern.FindAllString(text, -1)
	var out []string
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if len(m) < minCandidateSpan {
			continue
		}
		out = append(out, m)
	}
	return out
}
