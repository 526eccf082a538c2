// Package parser pulls structured payloads out of raw model responses.
package parser

import "strings"

const (
	// SplitMarker separates the lesson and exercise sections in free-text mode.
	SplitMarker = "<<<SPLIT_HERE>>>"
	// MissingExercises replaces the exercise section when the marker is absent.
	MissingExercises = "Exercises could not be parsed automatically."
)

// Split cuts text around the first sep. Without sep the whole text is the
// first section and placeholder the second; found reports which case applied.
func Split(text, sep, placeholder string) (before, after string, found bool) {
	before, after, found = strings.Cut(text, sep)
	if !found {
		return text, placeholder, false
	}
	return before, after, true
}
