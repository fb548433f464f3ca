package search

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		claimed  []string
		expected [][]string
	}{
		{
			"BareTermsDefaultToOr",
			"猫 狗 sunset",
			nil,
			[][]string{{"猫"}, {"狗"}, {"sunset"}},
		},
		{
			"ExplicitAndKeepsGroup",
			"猫 和 狗",
			nil,
			[][]string{{"猫", "狗"}},
		},
		{
			"AndThenOr",
			"猫 和 狗 或者 鸟",
			nil,
			[][]string{{"猫", "狗"}, {"鸟"}},
		},
		{
			"EnglishConnectives",
			"cat and dog or bird",
			nil,
			[][]string{{"cat", "dog"}, {"bird"}},
		},
		{
			"PipeAndAmpersand",
			"cat & dog | bird",
			nil,
			[][]string{{"cat", "dog"}, {"bird"}},
		},
		{
			"OrInsideWordIgnored",
			"score sunset",
			nil,
			[][]string{{"score"}, {"sunset"}},
		},
		{
			"NoiseFiltered",
			"帮我 查找 风景",
			nil,
			[][]string{{"风景"}},
		},
		{
			"GluedCJKCommandPhrase",
			"请帮我找一下所有的照片",
			nil,
			nil,
		},
		{
			"HashAndQuotesTrimmed",
			`#旅行 "海边"`,
			nil,
			[][]string{{"旅行"}, {"海边"}},
		},
		{
			"ClaimedSpanExcluded",
			"风景 猫",
			[]string{"名为风景的相册", "风景"},
			[][]string{{"猫"}},
		},
		{
			"DedupWithinGroup",
			"猫 和 猫 和 狗",
			nil,
			[][]string{{"猫", "狗"}},
		},
		{
			"DateShapedDropped",
			"2024-01-01 风景",
			nil,
			[][]string{{"风景"}},
		},
		{
			"SizeShapedDropped",
			"400kb-1mb 猫",
			nil,
			[][]string{{"猫"}},
		},
		{
			"ResolutionShapedDropped",
			"4k 1920x1080 1080p 日落",
			nil,
			[][]string{{"日落"}},
		},
		{
			"SingleRuneTermKept",
			"猫",
			nil,
			[][]string{{"猫"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractKeywords(tt.text, tt.claimed)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("extractKeywords(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}
