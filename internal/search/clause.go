package search

import (
	"strings"

	"photo-manager/internal/metrics"
)

// extractor is one named structured-field strategy. Each is a pure
// function of the segment text, returning its predicates plus the text
// spans it consumed.
type extractor struct {
	name string
	run  func(text string) ([]Predicate, []string)
}

// extractors run in this fixed order on every segment. Earlier extractors
// claim their spans before later ones and before keyword extraction sees
// the text, which is what resolves ambiguities like "4K" (resolution, not
// a 4-kilobyte size) and day numbers inside dates.
var extractors = []extractor{
	{"date", extractDate},
	{"size", extractSize},
	{"resolution", extractResolution},
	{"album", extractAlbum},
	{"camera", extractCamera},
}

// maxHintRunes caps the length of an advisory keyword hint.
const maxHintRunes = 40

// buildClause compiles one text segment plus the hints relevant to it into
// a single predicate. A segment yielding neither structured conditions nor
// keyword terms compiles to MatchNone, never MatchAll.
func buildClause(segment string, hints []string) Predicate {
	var structured []Predicate
	var claimed []string
	for _, ex := range extractors {
		preds, spans := ex.run(segment)
		if len(preds) == 0 {
			continue
		}
		structured = append(structured, preds...)
		claimed = append(claimed, spans...)
		metrics.SearchExtractorHits.WithLabelValues(ex.name).Inc()
	}

	groups := extractKeywords(segment, claimed)
	groups = append(groups, hintGroups(hints, claimed, groups)...)

	if len(structured) == 0 && len(groups) == 0 {
		return MatchNone{}
	}
	if len(groups) == 0 {
		return conjoin(structured)
	}
	keywords := keywordPredicate(groups)
	if len(structured) == 0 {
		return keywords
	}
	if detectLogic(segment) == LogicOr {
		return Or{Preds: []Predicate{conjoin(structured), keywords}}
	}
	return And{Preds: []Predicate{conjoin(structured), keywords}}
}

// keywordPredicate turns OR-groups of AND-terms into a predicate subtree.
func keywordPredicate(groups [][]string) Predicate {
	alternatives := make([]Predicate, 0, len(groups))
	for _, group := range groups {
		terms := make([]Predicate, 0, len(group))
		for _, term := range group {
			terms = append(terms, Keyword{Term: term})
		}
		alternatives = append(alternatives, conjoin(terms))
	}
	return disjoin(alternatives)
}

// hintGroups filters advisory hints the same way native tokens are
// filtered and returns each survivor as its own single-term OR-group.
// Hints duplicating a native term are skipped. Hints are advisory only and
// never define structured conditions.
func hintGroups(hints []string, claimed []string, existing [][]string) [][]string {
	var groups [][]string
	seen := make(map[string]struct{}, len(hints))
	for _, group := range existing {
		for _, term := range group {
			seen[strings.ToLower(term)] = struct{}{}
		}
	}
	for _, hint := range hints {
		hint = strings.TrimSpace(hint)
		if hint == "" || len([]rune(hint)) > maxHintRunes {
			continue
		}
		if isNoise(hint) || isClaimed(hint, claimed) {
			continue
		}
		lower := strings.ToLower(hint)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		groups = append(groups, []string{hint})
	}
	return groups
}
