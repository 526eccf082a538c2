package assembler

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/local/studyguide/internal/config"
)

// Template file names looked up in the template directory.
const (
	LessonTemplateFile   = "lesson_template.html"
	ExerciseTemplateFile = "exercise_template.html"
)

// Placeholders substituted in the templates.
const (
	PhTopic      = "{{CHAPTER_TOPIC}}"
	PhSummary    = "{{SUMMARY}}"
	PhReading    = "{{READING_ROWS}}"
	PhVocabulary = "{{VOCABULARY_ROWS}}"
	PhExercises  = "{{EXERCISE_CARDS}}"
)

const (
	missingField   = "N/A"
	missingSummary = "Not available"
)

// Templates holds the raw HTML of both page templates.
type Templates struct {
	Lesson   string
	Exercise string
}

// LoadTemplates reads both templates from dir. A missing file is a config error.
func LoadTemplates(dir string) (Templates, error) {
	var t Templates
	for _, f := range []struct {
		name string
		dst  *string
	}{{LessonTemplateFile, &t.Lesson}, {ExerciseTemplateFile, &t.Exercise}} {
		b, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			reason := "unreadable template " + f.name
			if errors.Is(err, os.ErrNotExist) { reason = "missing template " + f.name }
			return Templates{}, &config.Error{Key: "TEMPLATE_DIR", Reason: reason, Err: err}
		}
		*f.dst = string(b)
	}
	return t, nil
}

// LessonHTML fills the lesson template.
func (t Templates) LessonHTML(topic string, l Lesson) string {
	var reading, vocab strings.Builder
	for _, r := range l.ReadingContent {
		fmt.Fprintf(&reading, `<tr><td class="telugu">%s</td><td class="pronunciation">%s</td><td class="meaning">%s</td></tr>`,
			field(r.Telugu), field(r.Pronunciation), field(r.Meaning))
	}
	for _, w := range l.Vocabulary {
		fmt.Fprintf(&vocab, `<tr><td class="telugu">%s</td><td class="pronunciation">%s</td><td class="meaning">%s</td></tr>`,
			field(w.Word), field(w.Pronunciation), field(w.Meaning))
	}
	summary := missingSummary
	if strings.TrimSpace(l.Summary) != "" { summary = html.EscapeString(l.Summary) }

	return strings.NewReplacer(
		PhTopic, html.EscapeString(topic),
		PhSummary, summary,
		PhReading, reading.String(),
		PhVocabulary, vocab.String(),
	).Replace(t.Lesson)
}

// ExerciseHTML fills the exercise template.
func (t Templates) ExerciseHTML(topic string, set ExerciseSet) string {
	var cards strings.Builder
	for i, e := range set.Exercises {
		fmt.Fprintf(&cards, `<div class="exercise-card"><h3>Q%d. <span class="telugu">%s</span></h3><p class="pronunciation">%s</p><p class="meaning">%s</p><div class="answer"><p class="telugu">%s</p><p class="pronunciation">%s</p></div></div>`,
			i+1, field(e.QuestionTelugu), field(e.QuestionPronunciation), field(e.QuestionMeaning),
			field(e.AnswerTelugu), field(e.AnswerPronunciation))
	}
	return strings.NewReplacer(
		PhTopic, html.EscapeString(topic),
		PhExercises, cards.String(),
	).Replace(t.Exercise)
}

func field(s string) string {
	if strings.TrimSpace(s) == "" {
		return missingField
	}
	return html.EscapeString(s)
}
