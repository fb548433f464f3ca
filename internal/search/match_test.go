package search

import (
	"testing"
	"time"
)

func testEntry() *Entry {
	taken := time.Date(2024, 3, 10, 12, 30, 0, 0, time.Local)
	return &Entry{
		Name:         "Golden Hour",
		Description:  "evening light over the bay",
		OriginalName: "DSC01234.jpg",
		Folder:       "Travel",
		Tags:         []string{"sunset", "海边"},
		Albums:       []string{"Summer 2024"},
		Camera:       "Canon EOS R5",
		Lens:         "RF 24-70mm",
		AICaption:    "a beach at dusk",
		AILabels:     `["beach","sky"]`,
		SizeBytes:    3 * 1024 * 1024,
		Width:        3840,
		Height:       2160,
		UploadedAt:   time.Date(2024, 3, 11, 8, 0, 0, 0, time.Local),
		TakenAt:      &taken,
	}
}

func TestMatchesLeaves(t *testing.T) {
	entry := testEntry()

	tests := []struct {
		name     string
		pred     Predicate
		expected bool
	}{
		{"MatchAll", MatchAll{}, true},
		{"MatchNone", MatchNone{}, false},
		{"UploadedInRange", TimeRange{Field: TimeUploaded, Start: day(2024, 3, 11), End: endOfDay(2024, 3, 11)}, true},
		{"UploadedOutOfRange", TimeRange{Field: TimeUploaded, Start: day(2024, 3, 12), End: endOfDay(2024, 3, 12)}, false},
		{"TakenInRange", TimeRange{Field: TimeTaken, Start: day(2024, 3, 1), End: endOfDay(2024, 3, 31)}, true},
		{"SizeAtLeastHit", SizeAtLeast{Bytes: 2 * 1024 * 1024}, true},
		{"SizeAtLeastMiss", SizeAtLeast{Bytes: 4 * 1024 * 1024}, false},
		{"SizeAtMostHit", SizeAtMost{Bytes: 4 * 1024 * 1024}, true},
		{"MinPixelsExact", MinPixels{Pixels: 3840 * 2160}, true},
		{"MinPixelsAbove", MinPixels{Pixels: 3840*2160 + 1}, false},
		{"MinWidth", MinWidth{Width: 3840}, true},
		{"MinHeightMiss", MinHeight{Height: 2161}, false},
		{"AlbumByTitle", AlbumLike{Title: "summer"}, true},
		{"AlbumByFolder", AlbumLike{Title: "travel"}, true},
		{"AlbumMiss", AlbumLike{Title: "winter"}, false},
		{"GearByCamera", GearLike{Text: "canon"}, true},
		{"GearByLens", GearLike{Text: "24-70"}, true},
		{"GearMiss", GearLike{Text: "nikon"}, false},
		{"KeywordInName", Keyword{Term: "golden"}, true},
		{"KeywordInDescription", Keyword{Term: "evening"}, true},
		{"KeywordInOriginalName", Keyword{Term: "dsc01234"}, true},
		{"KeywordInTag", Keyword{Term: "海边"}, true},
		{"KeywordInAlbum", Keyword{Term: "2024"}, true},
		{"KeywordInAICaption", Keyword{Term: "dusk"}, true},
		{"KeywordInAILabels", Keyword{Term: "sky"}, true},
		{"KeywordMiss", Keyword{Term: "mountain"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.pred, entry); got != tt.expected {
				t.Errorf("Matches(%#v) = %v, want %v", tt.pred, got, tt.expected)
			}
		})
	}
}

func TestMatchesTakenNilNeverMatches(t *testing.T) {
	entry := testEntry()
	entry.TakenAt = nil

	pred := TimeRange{Field: TimeTaken, Start: day(2000, 1, 1), End: endOfDay(2099, 12, 31)}
	if Matches(pred, entry) {
		t.Error("entry without capture timestamp matched a taken range")
	}
}

func TestMatchesCombinators(t *testing.T) {
	entry := testEntry()

	and := And{Preds: []Predicate{Keyword{Term: "golden"}, SizeAtLeast{Bytes: 1024}}}
	if !Matches(and, entry) {
		t.Error("And with two true children should match")
	}

	and.Preds = append(and.Preds, Keyword{Term: "mountain"})
	if Matches(and, entry) {
		t.Error("And with a false child should not match")
	}

	or := Or{Preds: []Predicate{Keyword{Term: "mountain"}, Keyword{Term: "golden"}}}
	if !Matches(or, entry) {
		t.Error("Or with one true child should match")
	}

	or = Or{Preds: []Predicate{Keyword{Term: "mountain"}, Keyword{Term: "glacier"}}}
	if Matches(or, entry) {
		t.Error("Or with no true children should not match")
	}
}
