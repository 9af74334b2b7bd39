package pipeline

import "strings"

// invalidKeywords mark header and footer lines that happen to start with a
// part-number-like token. Matching is case-sensitive and substring based.
var invalidKeywords = []string{"Invoice", "State", "Model"}

func IsValidEntry(description string) bool {
	for _, kw := range invalidKeywords {
		if strings.Contains(description, kw) {
			return false
		}
	}
	return true
}
