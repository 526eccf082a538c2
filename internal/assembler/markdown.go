// Package assembler turns extracted page text and decoded model payloads into
// the documents written for each chapter.
package assembler

import (
	"fmt"
	"strings"
)

// Page is the text gathered for one page number. Text is empty when no source was found.
type Page struct {
	Number int
	Text   string
}

// LessonTitle and ExerciseTitle head the page-organized documents.
func LessonTitle(start, end int) string   { return fmt.Sprintf("📖 Lesson Content (%d-%d)", start, end) }
func ExerciseTitle(start, end int) string { return fmt.Sprintf("✍️ Exercises (%d-%d)", start, end) }

// PageDocument writes a title and one delimiter block per page, in the order given.
// Pages without text still get their delimiter.
func PageDocument(title string, pages []Page) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "\n\n--- Page %d ---\n\n", p.Number)
		b.WriteString(p.Text)
	}
	return b.String()
}

// OCRDocument joins recognized page texts with blank lines.
func OCRDocument(texts []string) string {
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(t)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// TranslationDocuments builds the lesson and exercise markdown of the free-text mode.
func TranslationDocuments(topic, lesson, exercise string) (string, string) {
	l := "# 📖 " + topic + "\n\n" + strings.TrimSpace(lesson)
	e := "# ✍️ " + topic + " - Exercises\n\n" + strings.TrimSpace(exercise)
	return l, e
}
