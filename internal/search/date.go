package search

import (
	"sort"
	"strconv"
	"time"
)

// extractDate finds date-shaped tokens in the text and turns them into a
// single inclusive day range. With two or more valid dates the earliest two
// bound the range; with exactly one the range covers that single day.
// Calendar-invalid components (month 13, February 30) are skipped silently.
//
// The range constrains the upload timestamp by default, the capture
// timestamp when the text contains a taken word, and the upload timestamp
// again when an explicit upload word is also present.
func extractDate(text string) ([]Predicate, []string) {
	matches := reDate.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	var days []time.Time
	var claimed []string
	for _, m := range matches {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		// time.Date normalizes out-of-range components, so a round-trip
		// mismatch means the input was not a real calendar date.
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			continue
		}
		days = append(days, t)
		claimed = append(claimed, m[0])
	}
	if len(days) == 0 {
		return nil, nil
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	start := days[0]
	end := start
	if len(days) > 1 {
		// Only the first two dates are used; extras are ignored.
		end = days[1]
	}
	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999000, end.Location())

	field := TimeUploaded
	if containsAny(text, takenWords) && !containsAny(text, uploadedWords) {
		field = TimeTaken
	}

	return []Predicate{TimeRange{Field: field, Start: start, End: endOfDay}}, claimed
}
