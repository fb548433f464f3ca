package search

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"Plain", "sunset photos", "sunset photos"},
		{"EnDash", "400KB–1MB", "400KB-1MB"},
		{"EmDash", "2024-01-01—2024-01-31", "2024-01-01-2024-01-31"},
		{"FullwidthHyphen", "1－2", "1-2"},
		{"MinusSign", "3−4", "3-4"},
		{"MixedText", "猫–狗", "猫-狗"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "400KB–1MB", "2024-01-01 到 2024-01-31", "名为\"风景\"的相册"}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}
