package search

// LogicMode is the relationship between a clause's structured conditions
// and its keyword expression.
type LogicMode int

const (
	// LogicAuto means no explicit connective was found; it combines as AND.
	LogicAuto LogicMode = iota
	// LogicAnd narrows: structured conditions AND keywords.
	LogicAnd
	// LogicOr broadens: structured conditions OR keywords.
	LogicOr
)

// String returns the string representation of a logic mode
func (m LogicMode) String() string {
	switch m {
	case LogicAnd:
		return "and"
	case LogicOr:
		return "or"
	default:
		return "auto"
	}
}

// detectLogic scans text for explicit connectives. Disjunction wins over
// conjunction when both appear: a user writing "or" almost always intends
// to broaden the query, so the broadening reading is kept.
func detectLogic(text string) LogicMode {
	if reOrConn.MatchString(text) {
		return LogicOr
	}
	if reAndConn.MatchString(text) {
		return LogicAnd
	}
	return LogicAuto
}
