// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textvec

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes drops single-character tokens, matching the usual
// word-tokenizer convention of two or more word characters.
const minTokenRunes = 2

// Tokenize lowercases text and splits it on every rune that is not a
// letter, digit or underscore. Tokens shorter than two runes are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			out = append(out, f)
		}
	}
	return out
}
