package model

import (
	"fmt"
	"strings"
	"unicode"
)

// MinClaimLength is the minimum number of non-whitespace characters a
// claim must contain. Enforced by the HTTP and CLI entry points, not by
// the verification core.
const MinClaimLength = 5

// Style selects how a verdict explanation is rendered
type Style string

const (
	StyleFormal Style = "formal" // Multi-paragraph explanation with entities and source counts
	StyleSimple Style = "simple" // One or two short sentences
)

// ParseStyle maps a request string onto a Style. Empty input selects
// the simple style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleSimple:
		return StyleSimple, nil
	case StyleFormal:
		return StyleFormal, nil
	default:
		return "", fmt.Errorf("unknown style %q", s)
	}
}

// Claim is the immutable input to one verification run
type Claim struct {
	Text  string `json:"text"`  // The claim text itself
	Style Style  `json:"style"` // Requested explanation style
}

// ValidateClaimText enforces the minimum claim length
func ValidateClaimText(text string) error {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	if n < MinClaimLength {
		return fmt.Errorf("claim text needs at least %d non-whitespace characters", MinClaimLength)
	}
	return nil
}
