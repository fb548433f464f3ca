package search

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestCompileEmptyQueryMatchesAll(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		pred := Compile(text, []string{"sunset"})
		if _, ok := pred.(MatchAll); !ok {
			t.Errorf("Compile(%q) = %T, want MatchAll", text, pred)
		}
	}
}

func TestCompileAllNoiseQueryMatchesNothing(t *testing.T) {
	tests := []string{
		"帮我 查找",
		"请帮我找一下所有的照片",
		"please find all photos",
	}
	for _, text := range tests {
		pred := Compile(text, nil)
		if _, ok := pred.(MatchNone); !ok {
			t.Errorf("Compile(%q) = %#v, want MatchNone", text, pred)
		}
	}
}

func TestCompileDateAndKeyword(t *testing.T) {
	pred := Compile("2024-01-01 到 2024-01-31 拍摄 风景", nil)

	expected := And{Preds: []Predicate{
		TimeRange{
			Field: TimeTaken,
			Start: day(2024, 1, 1),
			End:   endOfDay(2024, 1, 31),
		},
		Keyword{Term: "风景"},
	}}
	if !reflect.DeepEqual(pred, expected) {
		t.Errorf("Compile = %#v, want %#v", pred, expected)
	}
}

func TestCompileSizeRangeAndKeyword(t *testing.T) {
	pred := Compile("400KB-1MB 之间 猫", nil)

	expected := And{Preds: []Predicate{
		And{Preds: []Predicate{
			SizeAtLeast{Bytes: 400 * 1024},
			SizeAtMost{Bytes: 1024 * 1024},
		}},
		Keyword{Term: "猫"},
	}}
	if !reflect.DeepEqual(pred, expected) {
		t.Errorf("Compile = %#v, want %#v", pred, expected)
	}
}

func TestCompileTopLevelOrSplit(t *testing.T) {
	pred := Compile("4K 或者 日落", nil)

	expected := Or{Preds: []Predicate{
		MinPixels{Pixels: 3840 * 2160},
		Keyword{Term: "日落"},
	}}
	if !reflect.DeepEqual(pred, expected) {
		t.Errorf("Compile = %#v, want %#v", pred, expected)
	}
}

func TestCompileDropsUnparseableSegment(t *testing.T) {
	pred := Compile("帮我 或者 日落", nil)

	if !reflect.DeepEqual(pred, Keyword{Term: "日落"}) {
		t.Errorf("Compile = %#v, want the surviving segment only", pred)
	}
}

func TestCompileAllSegmentsUnparseable(t *testing.T) {
	pred := Compile("帮我 或者 查找", nil)
	if _, ok := pred.(MatchNone); !ok {
		t.Errorf("Compile = %#v, want MatchNone", pred)
	}
}

func TestCompileHints(t *testing.T) {
	// Hints are advisory keywords: filtered like native tokens, folded in
	// as additional OR alternatives.
	pred := Compile("猫", []string{"sunset", "帮我", strings.Repeat("a", 41), " ", "猫"})

	expected := Or{Preds: []Predicate{
		Keyword{Term: "猫"},
		Keyword{Term: "sunset"},
	}}
	if !reflect.DeepEqual(pred, expected) {
		t.Errorf("Compile = %#v, want %#v", pred, expected)
	}
}

func TestCompileHintsScopedToSegment(t *testing.T) {
	// In an OR-split query a hint only joins segments whose text contains it.
	pred := Compile("日落 或者 海边", []string{"日落", "雪山"})

	expected := Or{Preds: []Predicate{
		Keyword{Term: "日落"},
		Keyword{Term: "海边"},
	}}
	if !reflect.DeepEqual(pred, expected) {
		t.Errorf("Compile = %#v, want %#v", pred, expected)
	}
}

func TestCompileNeverUnconditionallyTrueForNonEmptyInput(t *testing.T) {
	queries := []string{
		"猫",
		"帮我 查找",
		"2024-01-01",
		"4K 或者 日落",
		"名为\"风景\"的相册",
		"xyzzy plugh",
	}
	for _, q := range queries {
		if pred := Compile(q, nil); reflect.DeepEqual(pred, MatchAll{}) {
			t.Errorf("Compile(%q) is unconditionally true", q)
		}
	}
}

func TestCompileAlbumScenario(t *testing.T) {
	pred := Compile(`名为"风景"的相册`, nil)

	if !reflect.DeepEqual(pred, AlbumLike{Title: "风景"}) {
		t.Errorf("Compile = %#v, want AlbumLike only", pred)
	}
}

func TestCompileLogicOrBetweenStructuredAndKeywords(t *testing.T) {
	// 还是 marks disjunction but both halves of this query parse, so the
	// OR-split path produces one clause per segment.
	pred := Compile("2MB以上 还是 日落", nil)

	expected := Or{Preds: []Predicate{
		SizeAtLeast{Bytes: 2 * 1024 * 1024},
		Keyword{Term: "日落"},
	}}
	if !reflect.DeepEqual(pred, expected) {
		t.Errorf("Compile = %#v, want %#v", pred, expected)
	}
}

func TestCompileEndToEndAgainstEntries(t *testing.T) {
	taken := time.Date(2024, 1, 10, 14, 0, 0, 0, time.Local)
	entries := []Entry{
		{
			Name:       "landscape.jpg",
			Tags:       []string{"风景"},
			SizeBytes:  2 * 1024 * 1024,
			Width:      3840,
			Height:     2160,
			UploadedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local),
			TakenAt:    &taken,
		},
		{
			Name:       "cat.png",
			Tags:       []string{"猫"},
			SizeBytes:  600 * 1024,
			Width:      800,
			Height:     600,
			UploadedAt: time.Date(2023, 11, 2, 9, 0, 0, 0, time.Local),
		},
	}

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"TakenDateAndKeyword", "2024-01-01 到 2024-01-31 拍摄 风景", []string{"landscape.jpg"}},
		{"SizeBandAndKeyword", "400KB-1MB 之间 猫", []string{"cat.png"}},
		{"ResolutionOrKeyword", "4K 或者 猫", []string{"landscape.jpg", "cat.png"}},
		{"Empty", "", []string{"landscape.jpg", "cat.png"}},
		{"AllNoise", "帮我 查找", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := Compile(tt.query, nil)
			var got []string
			for i := range entries {
				if Matches(pred, &entries[i]) {
					got = append(got, entries[i].Name)
				}
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("query %q matched %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}
