package tokenizer

import (
	"regexp"
	"strings"
)

// nonAlphanumericRegex matches sequences of characters that are neither letters nor digits.
var nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Tokenize converts a string into a slice of tokens.
// It lowercases the string and splits it on anything that is not a letter or a digit.
func Tokenize(text string) []string {
	// 1. Lowercase
	lowerText := strings.ToLower(text)

	// 2. Split by non-alphanumeric characters
	split := nonAlphanumericRegex.Split(lowerText, -1)

	tokens := make([]string, 0, len(split)) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" { // Filter out empty strings
			tokens = append(tokens, s)
		}
	}
	return tokens
}
