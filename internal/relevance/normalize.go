// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance asks the language model which search result best matches
// a query and how good the result set is. Model replies are free text, so
// every decision here has a deterministic fallback that tests exercise with
// injected failing or non-matching clients.
package relevance

import (
	"strings"
	"unicode"
)

// NormalizePatentNumber canonicalizes a patent identifier for equality
// comparison: every character that is not a letter or digit is stripped and
// the remainder upper-cased. The raw provider form is preserved everywhere
// else; the normalized form is never displayed or stored.
func NormalizePatentNumber(id string) string {
	var b strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}
