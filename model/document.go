package model

import "strings"

// Document is a raw corpus document as loaded from disk.
// Text is the content that gets processed and indexed; Title is kept for display.
type Document struct {
	ID         string   `json:"id"`
	Title      string   `json:"title,omitempty"`
	Text       string   `json:"text"`
	Categories []string `json:"categories,omitempty"`
}

// HasCategory reports whether the document is labelled with category.
func (d Document) HasCategory(category string) bool {
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Preview returns the text with newlines flattened, cut at maxLen runes with a trailing "...".
// A non-positive maxLen returns the whole flattened text.
func (d Document) Preview(maxLen int) string {
	flat := strings.ReplaceAll(d.Text, "\r\n", " ")
	flat = strings.ReplaceAll(flat, "\n", " ")

	runes := []rune(flat)
	if maxLen <= 0 || len(runes) <= maxLen {
		return flat
	}
	return string(runes[:maxLen]) + "..."
}
