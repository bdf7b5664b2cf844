package model

import "testing"

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Style
		wantErr bool
	}{
		{name: "empty defaults to simple", input: "", want: StyleSimple},
		{name: "simple", input: "simple", want: StyleSimple},
		{name: "formal", input: "formal", want: StyleFormal},
		{name: "case insensitive", input: "Formal", want: StyleFormal},
		{name: "surrounding whitespace", input: "  simple ", want: StyleSimple},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStyle(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStyle(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStyle(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStyle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateClaimText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "long enough", input: "The sky is blue"},
		{name: "exactly five characters", input: "abcde"},
		{name: "too short", input: "ok", wantErr: true},
		{name: "whitespace does not count", input: "a b c d \t\n", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClaimText(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateClaimText(%q) = nil, want error", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateClaimText(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}
