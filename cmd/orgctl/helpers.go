package main

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// slugify lowercases the name and collapses anything that is not a letter or
// digit into single dashes.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func newSessionID() string {
	return uuid.NewString()
}
