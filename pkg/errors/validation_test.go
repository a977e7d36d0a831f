package errors

import (
	"strings"
	"testing"
)

func TestValidateGeneID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"symbol", "TP53", false},
		{"ensembl", "ENSG00000141510", false},
		{"with dash", "HLA-A", false},
		{"with dot", "AC010.1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("A", 200), true},
		{"tab", "TP53\tMDM2", true},
		{"newline", "TP53\n", true},
		{"null byte", "TP\x0053", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGeneID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGeneID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateGeneID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateOutputPrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "perturb_viz", false},
		{"nested", "results/run1", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"directory", "results/", true},
		{"control char", "run\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://string-db.org/api", false},
		{"http", "http://localhost:8080", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "string-db.org/api", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
