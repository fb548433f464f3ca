package search

import "time"

// TimeField selects which timestamp column a TimeRange constrains.
type TimeField int

const (
	// TimeUploaded constrains the upload timestamp.
	TimeUploaded TimeField = iota
	// TimeTaken constrains the EXIF capture timestamp.
	TimeTaken
)

// String returns the string representation of a time field
func (f TimeField) String() string {
	if f == TimeTaken {
		return "taken"
	}
	return "uploaded"
}

// Predicate is one node of a compiled search filter. The concrete types
// below form a small tagged union: leaves describe a single comparison and
// And/Or combine children. Consumers walk the tree with a type switch; the
// database package compiles it to SQL and Matches evaluates it in memory.
type Predicate interface {
	isPredicate()
}

// MatchAll is the unconditionally true predicate. It is only ever produced
// for an empty query.
type MatchAll struct{}

// MatchNone is the unconditionally false predicate, produced when a query
// contains nothing usable after noise filtering.
type MatchNone struct{}

// And matches when every child predicate matches.
type And struct {
	Preds []Predicate
}

// Or matches when at least one child predicate matches.
type Or struct {
	Preds []Predicate
}

// TimeRange matches entries whose selected timestamp falls inside the
// inclusive [Start, End] window.
type TimeRange struct {
	Field TimeField
	Start time.Time
	End   time.Time
}

// SizeAtLeast matches entries of at least Bytes bytes.
type SizeAtLeast struct {
	Bytes int64
}

// SizeAtMost matches entries of at most Bytes bytes.
type SizeAtMost struct {
	Bytes int64
}

// MinPixels matches entries whose width*height is at least Pixels.
type MinPixels struct {
	Pixels int64
}

// MinWidth matches entries at least Width pixels wide.
type MinWidth struct {
	Width int
}

// MinHeight matches entries at least Height pixels tall.
type MinHeight struct {
	Height int
}

// AlbumLike matches entries whose folder name or one of whose album titles
// contains Title, case-insensitively.
type AlbumLike struct {
	Title string
}

// GearLike matches entries whose camera model or lens model contains Text,
// case-insensitively.
type GearLike struct {
	Text string
}

// Keyword matches entries where Term appears as a case-insensitive
// substring in any searchable text field (name, description, original
// filename, folder, tag names, album titles, AI caption, AI labels).
type Keyword struct {
	Term string
}

func (MatchAll) isPredicate()    {}
func (MatchNone) isPredicate()   {}
func (And) isPredicate()         {}
func (Or) isPredicate()          {}
func (TimeRange) isPredicate()   {}
func (SizeAtLeast) isPredicate() {}
func (SizeAtMost) isPredicate()  {}
func (MinPixels) isPredicate()   {}
func (MinWidth) isPredicate()    {}
func (MinHeight) isPredicate()   {}
func (AlbumLike) isPredicate()   {}
func (GearLike) isPredicate()    {}
func (Keyword) isPredicate()     {}

// conjoin combines predicates with AND, collapsing the trivial cases so
// callers never see a one-element And node.
func conjoin(preds []Predicate) Predicate {
	switch len(preds) {
	case 0:
		return MatchAll{}
	case 1:
		return preds[0]
	default:
		return And{Preds: preds}
	}
}

// disjoin combines predicates with OR. Zero children means nothing matched.
func disjoin(preds []Predicate) Predicate {
	switch len(preds) {
	case 0:
		return MatchNone{}
	case 1:
		return preds[0]
	default:
		return Or{Preds: preds}
	}
}
