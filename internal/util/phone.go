package util

import "strings"

const suffixLen = 9

// NormalizeKey canonicalizes a raw phone string into the conversation key.
// It keeps digits plus a single leading "+" and discards everything else.
// This is an exact-identity normalization: "+56912345678" and "56912345678"
// stay two different keys. Callers that need format-tolerant matching use
// DigitSuffix instead.
func NormalizeKey(raw string) string {
	s := strings.TrimSpace(raw)
	plus := strings.HasPrefix(s, "+")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	if plus {
		return "+" + b.String()
	}
	return b.String()
}

// DigitSuffix returns the last 9 digits of raw, ignoring every non-digit
// character. Inputs with fewer than 9 digits return all of their digits.
// Used for access-control matching only, never for conversation grouping.
func DigitSuffix(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) <= suffixLen {
		return digits
	}
	return digits[len(digits)-suffixLen:]
}
