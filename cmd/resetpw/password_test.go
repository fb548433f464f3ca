package main

import "testing"

func TestValidateNewPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  bool
	}{
		{"valid", "correct-horse", "correct-horse", false},
		{"exactly eight chars", "12345678", "12345678", false},
		{"mismatch", "correct-horse", "correct-h0rse", true},
		{"too short", "short", "short", true},
		{"short and mismatched", "short", "other", true},
		{"both empty", "", "", true},
		{"confirm empty", "correct-horse", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNewPassword([]byte(tt.password), []byte(tt.confirm))
			if (err != nil) != tt.wantErr {
				t.Errorf("validateNewPassword(%q, %q) error = %v, wantErr %v",
					tt.password, tt.confirm, err, tt.wantErr)
			}
		})
	}
}
