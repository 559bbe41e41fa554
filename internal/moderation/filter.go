// Package moderation screens battle verses before they reach a room:
// a blocklist filter that can reject a submission outright, and an
// advisory authenticity heuristic that flags likely machine-written text
// without blocking it.
package moderation

import (
	"strings"
	"unicode"
)

// Blocked terms, deliberately short and targeted. Single words are matched
// on token boundaries to avoid false positives; multi-word phrases are
// matched by substring.
var blockedTerms = []string{
	"fuck", "shit", "bitch", "asshole", "cunt", "dick", "cock", "pussy",
	"nigger", "nigga", "faggot", "retard", "kike", "spic", "chink", "wetback",
	"kill yourself", "kys", "hang yourself", "go die",
}

const rejectionMessage = "Your verse contains language that violates our community guidelines. Please revise and resubmit."

// FilterResult reports whether a verse passed the content filter.
type FilterResult struct {
	Allowed bool
	Reason  string
}

// Check runs the blocklist against text. The first match short-circuits
// with a fixed user-facing reason.
func Check(text string) FilterResult {
	lower := strings.ToLower(text)

	for _, term := range blockedTerms {
		if strings.ContainsRune(term, ' ') {
			if strings.Contains(lower, term) {
				return FilterResult{Reason: rejectionMessage}
			}
			continue
		}
		for _, token := range strings.FieldsFunc(lower, isNonAlphanumeric) {
			if token == term {
				return FilterResult{Reason: rejectionMessage}
			}
		}
	}

	return FilterResult{Allowed: true}
}

func isNonAlphanumeric(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
