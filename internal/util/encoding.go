package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail canonicalizes an email address for lookup: Unicode
// NFKC normalization, trimmed whitespace, lowercased.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// SplitName breaks a display name into first and last parts. Everything
// after the first space goes into the last name.
func SplitName(fullName string) (first, last string) {
	fullName = strings.TrimSpace(fullName)
	first, last, ok := strings.Cut(fullName, " ")
	if !ok {
		return fullName, ""
	}
	return first, strings.TrimSpace(last)
}
