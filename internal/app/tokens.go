package app

import (
	"strings"
	"unicode"
)

// wordToken is one display word of a subtitle line plus the cleaned form
// used for dictionary lookups.
type wordToken struct {
	Display string
	Lookup  string
}

// tokenize splits a subtitle line into display words. mpv's sub-text can
// span multiple rendered lines; they are flattened into one.
func tokenize(line string) []wordToken {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	out := make([]wordToken, 0, len(fields))
	for _, f := range fields {
		out = append(out, wordToken{Display: f, Lookup: lookupForm(f)})
	}
	return out
}

// lookupForm strips surrounding punctuation and lowercases the word. An
// empty result means the token is punctuation-only and not clickable.
func lookupForm(word string) string {
	trimmed := strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.ToLower(trimmed)
}
