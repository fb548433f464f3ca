package search

import (
	"strings"

	"photo-manager/internal/logging"
	"photo-manager/internal/metrics"
)

// Compile turns a free-form query plus optional advisory keyword hints
// into a predicate tree.
//
// An empty query compiles to MatchAll regardless of hints. A query whose
// top-level logic mode is OR is split on the disjunctive connectives and
// each segment becomes its own clause; otherwise the whole text becomes a
// single clause. Hints are folded into whichever segment's text literally
// contains them.
func Compile(text string, hints []string) Predicate {
	normalized := Normalize(strings.TrimSpace(text))
	if normalized == "" {
		metrics.SearchQueriesTotal.WithLabelValues("match_all").Inc()
		return MatchAll{}
	}

	var pred Predicate
	if detectLogic(normalized) == LogicOr {
		pred = compileDisjunction(normalized, hints)
	} else {
		pred = buildClause(normalized, hints)
	}

	if _, none := pred.(MatchNone); none {
		metrics.SearchQueriesTotal.WithLabelValues("match_none").Inc()
	} else {
		metrics.SearchQueriesTotal.WithLabelValues("compiled").Inc()
	}
	return pred
}

// compileDisjunction splits the query on its OR connectives, compiles each
// segment independently, and OR-combines the usable clauses. Segments that
// parse to nothing are dropped rather than poisoning the disjunction; the
// drop is logged and counted so unparseable input stays visible.
func compileDisjunction(text string, hints []string) Predicate {
	var clauses []Predicate
	for _, segment := range reOrConn.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		clause := buildClause(segment, hintsInSegment(hints, segment))
		if _, dead := clause.(MatchNone); dead {
			logging.Debug("Search: dropping unparseable segment %q", segment)
			metrics.SearchSegmentsDropped.Inc()
			continue
		}
		clauses = append(clauses, clause)
	}
	return disjoin(clauses)
}

// hintsInSegment keeps only the hints that literally occur in the segment
// text, so a hint cannot leak into an unrelated branch of the disjunction.
func hintsInSegment(hints []string, segment string) []string {
	var kept []string
	lower := strings.ToLower(segment)
	for _, hint := range hints {
		trimmed := strings.TrimSpace(hint)
		if trimmed != "" && strings.Contains(lower, strings.ToLower(trimmed)) {
			kept = append(kept, trimmed)
		}
	}
	return kept
}
