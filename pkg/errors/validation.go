package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxGeneIDLength bounds gene identifiers read from user files. Real symbols
// and Ensembl IDs are far shorter; anything longer is a parsing accident.
const maxGeneIDLength = 128

// ValidateGeneID validates a gene identifier read from an input file.
//
// The rules are conservative:
//   - No empty identifiers
//   - No control characters (tabs and newlines indicate a mis-split row)
//   - Maximum length of 128 characters
func ValidateGeneID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "gene identifier cannot be empty")
	}
	if len(id) > maxGeneIDLength {
		return New(ErrCodeInvalidInput, "gene identifier too long (max %d characters)", maxGeneIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "gene identifier %q contains control characters", id)
		}
	}
	return nil
}

// ValidateOutputPrefix validates the prefix used to name output files.
// The prefix may contain directories but must not end in a separator,
// since the file suffixes are appended directly.
func ValidateOutputPrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return New(ErrCodeInvalidInput, "output prefix cannot be empty")
	}
	if strings.HasSuffix(prefix, "/") || strings.HasSuffix(prefix, string(filepath.Separator)) {
		return New(ErrCodeInvalidInput, "output prefix %q must name a file, not a directory", prefix)
	}
	for _, r := range prefix {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output prefix contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
