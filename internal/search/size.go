package search

import (
	"regexp"
	"strconv"
	"strings"
)

// minSizeSlack is the smallest absolute tolerance applied when widening an
// exact size (no qualifier, no range) into a band.
const minSizeSlack int64 = 256 * 1024

var (
	// reSizeRange matches "<number><unit?> <connective> <number><unit?>".
	// At least one side must carry a unit; the other inherits it. A pair
	// with no unit at all is rejected so bare numbers (years, counters)
	// are never read as sizes.
	reSizeRange = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(gb|mb|kb|g|m|k|兆)?\s*(?:-|~|到|至|\bto\b|\buntil\b)\s*(\d+(?:\.\d+)?)\s*(gb|mb|kb|g|m|k|兆)?`)

	// reSizeSingle matches one value with a mandatory unit.
	reSizeSingle = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(gb|mb|kb|g|m|k|兆)`)
)

// extractSize parses a byte-size range or a single bounded value. Date and
// resolution shaped substrings are blanked out first so a day-of-month or a
// "4K" resolution alias cannot be misread as a size.
func extractSize(text string) ([]Predicate, []string) {
	scrubbed := reDate.ReplaceAllString(text, " ")
	scrubbed = scrubResolutionShapes(scrubbed)

	if m := reSizeRange.FindStringSubmatch(scrubbed); m != nil && (m[2] != "" || m[4] != "") {
		leftUnit, rightUnit := m[2], m[4]
		if leftUnit == "" {
			leftUnit = rightUnit
		}
		if rightUnit == "" {
			rightUnit = leftUnit
		}
		min := sizeBytes(m[1], leftUnit)
		max := sizeBytes(m[3], rightUnit)
		if min > max {
			min, max = max, min
		}
		return []Predicate{SizeAtLeast{Bytes: min}, SizeAtMost{Bytes: max}}, []string{m[0]}
	}

	m := reSizeSingle.FindStringSubmatch(scrubbed)
	if m == nil {
		return nil, nil
	}
	value := sizeBytes(m[1], m[2])
	claimed := []string{m[0]}

	switch {
	case containsAny(text, aboveWords):
		return []Predicate{SizeAtLeast{Bytes: value}}, claimed
	case containsAny(text, belowWords):
		return []Predicate{SizeAtMost{Bytes: value}}, claimed
	default:
		// An exact size is almost never what the user means, so widen it
		// into a tolerance band of 10% with a fixed minimum slack.
		slack := value / 10
		if slack < minSizeSlack {
			slack = minSizeSlack
		}
		min := value - slack
		if min < 0 {
			min = 0
		}
		return []Predicate{SizeAtLeast{Bytes: min}, SizeAtMost{Bytes: value + slack}}, claimed
	}
}

// sizeBytes converts a numeric literal plus unit to bytes. 兆 is treated as
// a megabyte, matching common usage for file sizes.
func sizeBytes(number, unit string) int64 {
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(unit) {
	case "k", "kb":
		value *= 1024
	case "m", "mb", "兆":
		value *= 1024 * 1024
	case "g", "gb":
		value *= 1024 * 1024 * 1024
	}
	return int64(value)
}

// scrubResolutionShapes blanks out substrings the resolution extractor owns
// (WxH pairs, pixel counts, 4K/2K aliases, 1080p-style heights).
func scrubResolutionShapes(text string) string {
	text = reResPair.ReplaceAllString(text, " ")
	text = reResPixels.ReplaceAllString(text, " ")
	text = reResAlias.ReplaceAllString(text, " ")
	text = reResHeight.ReplaceAllString(text, " ")
	return text
}
