package search

import (
	"strings"
	"unicode"
)

// Internal marker tokens substituted for explicit connective words before
// tokenization. Latin-only so the CJK scrub cannot touch them.
const (
	orMarker  = "__OR__"
	andMarker = "__AND__"
)

// extractKeywords tokenizes the text left over after structured extraction
// into OR-groups of AND-terms.
//
// An OR connective closes the current group; an AND connective records that
// explicit AND grouping was requested. Surviving tokens are trimmed of
// quotes and a leading #, checked against the claimed spans and the noise
// classifier, and deduplicated within their group. When no explicit AND was
// seen the groups are flattened so every term stands alone, which makes the
// default across bare terms OR rather than AND. That default is deliberate:
// it biases multi-term queries toward recall.
func extractKeywords(text string, claimed []string) [][]string {
	cleaned := punctToSpace(text)
	cleaned = cjkScrub.ReplaceAllString(cleaned, " ")
	cleaned = reOrConn.ReplaceAllString(cleaned, " "+orMarker+" ")
	cleaned = reAndConn.ReplaceAllString(cleaned, " "+andMarker+" ")

	var groups [][]string
	var current []string
	explicitAnd := false

	for _, token := range strings.Fields(cleaned) {
		switch token {
		case orMarker:
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}
		case andMarker:
			explicitAnd = true
		default:
			term := strings.Trim(token, `"“”'‘’「」『』`)
			term = strings.TrimPrefix(term, "#")
			if term == "" || isNoise(term) || isClaimed(term, claimed) {
				continue
			}
			if !termInGroup(current, term) {
				current = append(current, term)
			}
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	if !explicitAnd {
		var flat [][]string
		for _, group := range groups {
			for _, term := range group {
				flat = append(flat, []string{term})
			}
		}
		groups = flat
	}
	return groups
}

// punctToSpace replaces punctuation and symbol runes with spaces, keeping
// the characters later stages still need: quote styles, #, the OR bar, the
// AND ampersand, and hyphens inside compound terms.
func punctToSpace(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '“', '”', '\'', '‘', '’', '「', '」', '『', '』', '#', '|', '&', '-':
			return r
		}
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, text)
}

// isClaimed reports whether a token was already consumed by a structured
// extractor, by substring containment in any claimed span.
func isClaimed(term string, claimed []string) bool {
	lower := strings.ToLower(term)
	for _, span := range claimed {
		if strings.Contains(strings.ToLower(span), lower) {
			return true
		}
	}
	return false
}

func termInGroup(group []string, term string) bool {
	for _, t := range group {
		if strings.EqualFold(t, term) {
			return true
		}
	}
	return false
}
