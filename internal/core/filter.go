package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// shortKeywordLen is the longest keyword that must match a whole word.
// Longer keywords match anywhere in the text.
const shortKeywordLen = 3

// MatchesKeywords reports whether text contains any of the keywords, ignoring case.
func MatchesKeywords(text string, keywords []string) bool {
	lowerText := strings.ToLower(text)
	for _, k := range keywords {
		if containsKeyword(lowerText, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// containsKeyword expects both arguments already lowercased.
func containsKeyword(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	if utf8.RuneCountInString(keyword) > shortKeywordLen {
		return strings.Contains(text, keyword)
	}
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], keyword)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(keyword)
		if isWordBoundary(text, start, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
