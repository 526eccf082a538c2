package parser

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/local/studyguide/internal/assembler"
)

// Shapes only: every field is optional and may be null.
const (
	lessonSchema = `{
  "type": "object",
  "properties": {
    "summary": {"type": ["string", "null"]},
    "reading_content": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "telugu": {"type": ["string", "null"]},
          "pronunciation": {"type": ["string", "null"]},
          "meaning": {"type": ["string", "null"]}
        }
      }
    },
    "vocabulary": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "word": {"type": ["string", "null"]},
          "pronunciation": {"type": ["string", "null"]},
          "meaning": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

	exerciseSchema = `{
  "type": "object",
  "properties": {
    "exercises": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "question_telugu": {"type": ["string", "null"]},
          "question_pronunciation": {"type": ["string", "null"]},
          "question_meaning": {"type": ["string", "null"]},
          "answer_telugu": {"type": ["string", "null"]},
          "answer_pronunciation": {"type": ["string", "null"]}
        }
      }
    }
  }
}`
)

var (
	lessonShape   = jsonschema.MustCompileString("lesson.json", lessonSchema)
	exerciseShape = jsonschema.MustCompileString("exercise.json", exerciseSchema)
)

// DecodeLesson extracts and decodes a lesson payload from a model response.
func DecodeLesson(raw string, opts Options) (assembler.Lesson, error) {
	var l assembler.Lesson
	err := decodeInto(raw, opts, lessonShape, &l)
	return l, err
}

// DecodeExercises extracts and decodes an exercise payload from a model response.
func DecodeExercises(raw string, opts Options) (assembler.ExerciseSet, error) {
	var e assembler.ExerciseSet
	err := decodeInto(raw, opts, exerciseShape, &e)
	return e, err
}

func decodeInto(raw string, opts Options, shape *jsonschema.Schema, dst any) error {
	payload, err := ExtractJSON(raw, opts)
	if err != nil { return err }

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return &MalformedError{Payload: string(payload), Err: err}
	}
	if err := shape.Validate(doc); err != nil {
		return &MalformedError{Payload: string(payload), Err: fmt.Errorf("unexpected shape: %w", err)}
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return &MalformedError{Payload: string(payload), Err: err}
	}
	return nil
}
