package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Error is a fatal configuration problem detected before any chapter runs.
type Error struct {
	Key    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// PageRange is an inclusive interval of printed page numbers.
type PageRange struct {
	Start int
	End   int
}

// Pages lists every page in the range in ascending order.
func (r PageRange) Pages() []int {
	if r.End < r.Start {
		return nil
	}
	out := make([]int, 0, r.End-r.Start+1)
	for p := r.Start; p <= r.End; p++ {
		out = append(out, p)
	}
	return out
}

func (r PageRange) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

func (r PageRange) valid() bool { return r.Start > 0 && r.Start <= r.End }

// UnmarshalJSON accepts the [start, end] pair form used by the chapter file.
func (r *PageRange) UnmarshalJSON(b []byte) error {
	var pair []int
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("page range needs exactly 2 numbers, got %d", len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// ChapterSpec describes one textbook chapter.
type ChapterSpec struct {
	ID       int
	Folder   string
	Topic    string
	Lesson   PageRange
	Exercise PageRange
}

// Span covers both the lesson and exercise pages.
func (c ChapterSpec) Span() PageRange {
	s := PageRange{Start: c.Lesson.Start, End: c.Lesson.End}
	if c.Exercise.Start < s.Start { s.Start = c.Exercise.Start }
	if c.Exercise.End > s.End { s.End = c.Exercise.End }
	return s
}

// ChapterFile is the parsed chapter configuration consumed by the document-model workflows.
type ChapterFile struct {
	PDFPath  string
	Chapters []ChapterSpec
}

type chapterFileJSON struct {
	PDFPath  string `json:"pdf_path"`
	Chapters []struct {
		Folder        string     `json:"folder"`
		Topic         string     `json:"topic"`
		StartPage     int        `json:"start_page"`
		EndPage       int        `json:"end_page"`
		LessonPages   *PageRange `json:"lesson_pages,omitempty"`
		ExercisePages *PageRange `json:"exercise_pages,omitempty"`
	} `json:"chapters"`
}

// LoadChapters reads and validates the chapter configuration file.
func LoadChapters(path string) (ChapterFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ChapterFile{}, &Error{Key: "chapters file", Reason: "cannot read " + path, Err: err}
	}
	return ParseChapters(b)
}

// ParseChapters validates a chapter configuration document.
func ParseChapters(b []byte) (ChapterFile, error) {
	var raw chapterFileJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return ChapterFile{}, &Error{Key: "chapters file", Reason: "invalid json", Err: err}
	}
	if raw.PDFPath == "" {
		return ChapterFile{}, &Error{Key: "pdf_path", Reason: "missing"}
	}
	if len(raw.Chapters) == 0 {
		return ChapterFile{}, &Error{Key: "chapters", Reason: "empty"}
	}

	out := ChapterFile{PDFPath: raw.PDFPath}
	seen := map[string]bool{}
	for i, c := range raw.Chapters {
		if c.Folder == "" {
			return ChapterFile{}, &Error{Key: fmt.Sprintf("chapters[%d].folder", i), Reason: "missing"}
		}
		if seen[c.Folder] {
			return ChapterFile{}, &Error{Key: fmt.Sprintf("chapters[%d].folder", i), Reason: "duplicate " + c.Folder}
		}
		seen[c.Folder] = true

		whole := PageRange{Start: c.StartPage, End: c.EndPage}
		spec := ChapterSpec{ID: i + 1, Folder: c.Folder, Topic: c.Topic, Lesson: whole, Exercise: whole}
		if c.LessonPages != nil { spec.Lesson = *c.LessonPages }
		if c.ExercisePages != nil { spec.Exercise = *c.ExercisePages }
		if spec.Topic == "" { spec.Topic = c.Folder }

		for name, r := range map[string]PageRange{"lesson": spec.Lesson, "exercise": spec.Exercise} {
			if !r.valid() {
				return ChapterFile{}, &Error{Key: fmt.Sprintf("chapters[%d]", i), Reason: fmt.Sprintf("invalid %s range %s", name, r)}
			}
		}
		out.Chapters = append(out.Chapters, spec)
	}
	return out, nil
}

// MaxPage returns the highest page referenced by any chapter.
func (f ChapterFile) MaxPage() int {
	max := 0
	for _, c := range f.Chapters {
		if c.Lesson.End > max { max = c.Lesson.End }
		if c.Exercise.End > max { max = c.Exercise.End }
	}
	return max
}
