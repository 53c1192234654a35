package domain

import "strings"

// ContainsPhrase reports whether text contains phrase at a word boundary,
// case-insensitively. A boundary is either the start/end of text or a
// non-alphanumeric character, so "ack" never matches inside "acknowledge"
// and "lgtm" never matches inside "lgtmaybe".
//
// Reviewer parsers use this instead of a raw strings.Contains so that
// short signature phrases (e.g. "ack", "lgtm") don't false-positive
// inside unrelated prose.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	return containsPhraseFrom(strings.ToLower(text), strings.ToLower(phrase), 0)
}

// ContainsAnyPhrase reports whether text contains any of phrases at a word boundary.
func ContainsAnyPhrase(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if containsPhraseFrom(lower, strings.ToLower(phrase), 0) {
			return true
		}
	}
	return false
}

// containsPhraseFrom searches textLower (already lowercased) for phraseLower
// starting at offset, retrying past non-boundary matches.
func containsPhraseFrom(textLower, phraseLower string, offset int) bool {
	if offset >= len(textLower) {
		return false
	}
	idx := strings.Index(textLower[offset:], phraseLower)
	if idx == -1 {
		return false
	}
	absIdx := offset + idx

	if absIdx > 0 && isWordChar(rune(textLower[absIdx-1])) {
		return containsPhraseFrom(textLower, phraseLower, absIdx+1)
	}

	endIdx := absIdx + len(phraseLower)
	if endIdx < len(textLower) && isWordChar(rune(textLower[endIdx])) {
		return containsPhraseFrom(textLower, phraseLower, absIdx+1)
	}

	return true
}

// isWordChar returns true if the byte is a letter, digit, or underscore.
func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}
