package util

import (
	"strings"
	"unicode"
)

// CleanDescription strips '%' characters and bare numbers from a description
// and collapses the whitespace left behind.
//
// A number survives when the character right before it is '(' or the character
// right after it is ')'. Parentheses are not balanced, only the neighbours are checked.
func CleanDescription(description string) string {
	description = strings.ReplaceAll(description, "%", "")
	description = stripBareNumbers(description)
	return CollapseSpaces(description)
}

// CollapseSpaces replaces runs of two or more whitespace characters with one
// space and trims the ends. A single tab or newline is left as is.
func CollapseSpaces(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	runes := []rune(input)
	for i := 0; i < len(runes); {
		if !isSpace(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		if j-i >= 2 {
			b.WriteRune(' ')
		} else {
			b.WriteRune(runes[i])
		}
		i = j
	}
	return strings.TrimFunc(b.String(), isSpace)
}

// stripBareNumbers removes tokens matching \b\d+(\.\d+)?\b that are not
// preceded by '(' and not followed by ')'. Matches are non-overlapping,
// left to right, with the decimal part tried before the integer-only form.
func stripBareNumbers(input string) string {
	runes := []rune(input)
	n := len(runes)

	var b strings.Builder
	b.Grow(len(input))

	i := 0
	for i < n {
		if end, ok := bareNumberAt(runes, i); ok {
			i = end
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

func bareNumberAt(runes []rune, start int) (int, bool) {
	n := len(runes)
	if !unicode.IsDigit(runes[start]) {
		return 0, false
	}
	if start > 0 && (isWord(runes[start-1]) || runes[start-1] == '(') {
		return 0, false
	}

	intEnd := digitRunEnd(runes, start)

	if intEnd+1 < n && runes[intEnd] == '.' && unicode.IsDigit(runes[intEnd+1]) {
		fracEnd := digitRunEnd(runes, intEnd+1)
		if boundaryAfter(runes, fracEnd) {
			return fracEnd, true
		}
	}
	if boundaryAfter(runes, intEnd) {
		return intEnd, true
	}
	return 0, false
}

// boundaryAfter reports whether a token ending at end is followed by a word
// boundary that is not a closing parenthesis.
func boundaryAfter(runes []rune, end int) bool {
	if end == len(runes) {
		return true
	}
	return !isWord(runes[end]) && runes[end] != ')'
}

func digitRunEnd(runes []rune, from int) int {
	for from < len(runes) && unicode.IsDigit(runes[from]) {
		from++
	}
	return from
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x1c, 0x1d, 0x1e, 0x1f, 0x85:
		return true
	}
	return unicode.IsSpace(r)
}
