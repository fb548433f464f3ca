package search

import (
	"reflect"
	"testing"
)

func TestExtractResolution(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []Predicate
	}{
		{
			"ExplicitPair",
			"3840x2160 的照片",
			[]Predicate{MinWidth{Width: 3840}, MinHeight{Height: 2160}, MinPixels{Pixels: 3840 * 2160}},
		},
		{
			"StarSeparator",
			"1920*1080",
			[]Predicate{MinWidth{Width: 1920}, MinHeight{Height: 1080}, MinPixels{Pixels: 1920 * 1080}},
		},
		{
			"TimesSign",
			"2560×1440",
			[]Predicate{MinWidth{Width: 2560}, MinHeight{Height: 1440}, MinPixels{Pixels: 2560 * 1440}},
		},
		{
			"PairWinsOverAlias",
			"1920*1080 4k",
			[]Predicate{MinWidth{Width: 1920}, MinHeight{Height: 1080}, MinPixels{Pixels: 1920 * 1080}},
		},
		{
			"PixelCount",
			"2000000像素",
			[]Predicate{MinPixels{Pixels: 2000000}},
		},
		{
			"PixelCountEnglish",
			"at least 8000000 pixels",
			[]Predicate{MinPixels{Pixels: 8000000}},
		},
		{
			"Alias4K",
			"4K 风景",
			[]Predicate{MinPixels{Pixels: 3840 * 2160}},
		},
		{
			"Alias2KLowercase",
			"2k",
			[]Predicate{MinPixels{Pixels: 2560 * 1440}},
		},
		{
			"HeightShorthand1080p",
			"1080p",
			[]Predicate{MinWidth{Width: 1920}, MinHeight{Height: 1080}},
		},
		{
			"HeightShorthand720p",
			"720p",
			[]Predicate{MinWidth{Width: 1280}, MinHeight{Height: 720}},
		},
		{"AliasNeedsBoundary", "4kb", nil},
		{"NoMatch", "风景 猫", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds, _ := extractResolution(tt.text)
			if !reflect.DeepEqual(preds, tt.expected) {
				t.Errorf("extractResolution(%q) = %v, want %v", tt.text, preds, tt.expected)
			}
		})
	}
}
