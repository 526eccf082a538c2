package parser

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantBefore string
		wantAfter  string
		wantFound  bool
	}{
		{"marker once", "lesson body\n<<<SPLIT_HERE>>>\nexercise body", "lesson body\n", "\nexercise body", true},
		{"marker at start", "<<<SPLIT_HERE>>>rest", "", "rest", true},
		{"no marker", "only lesson", "only lesson", MissingExercises, false},
		{"marker twice keeps first cut", "a<<<SPLIT_HERE>>>b<<<SPLIT_HERE>>>c", "a", "b<<<SPLIT_HERE>>>c", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, after, found := Split(tt.text, SplitMarker, MissingExercises)
			if before != tt.wantBefore || after != tt.wantAfter || found != tt.wantFound {
				t.Fatalf("Split() = (%q, %q, %v)", before, after, found)
			}
			if found && before+SplitMarker+after != tt.text {
				t.Fatalf("sections do not reconstruct input")
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	got, err := ExtractJSON("blah {\"a\":1} blah", Options{RepairBackslashes: true})
	if err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	var v map[string]any
	if err := json.Unmarshal(got, &v); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v, map[string]any{"a": float64(1)}) {
		t.Fatalf("got %v", v)
	}
}

func TestExtractJSONErrorsAreDistinct(t *testing.T) {
	_, err := ExtractJSON("no braces here", Options{})
	if !errors.Is(err, ErrNoPayload) || errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrNoPayload only, got %v", err)
	}

	_, err = ExtractJSON("} backwards {", Options{})
	if !errors.Is(err, ErrNoPayload) {
		t.Fatalf("want ErrNoPayload for reversed braces, got %v", err)
	}

	_, err = ExtractJSON(`prefix {"a": } suffix`, Options{})
	var me *MalformedError
	if !errors.As(err, &me) || !errors.Is(err, ErrMalformed) || errors.Is(err, ErrNoPayload) {
		t.Fatalf("want MalformedError, got %v", err)
	}
	if me.Payload != `{"a": }` {
		t.Fatalf("payload = %q", me.Payload)
	}
}

func TestExtractJSONBackslashRepair(t *testing.T) {
	raw := `{"telugu": "C:\path"}`

	if _, err := ExtractJSON(raw, Options{}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("without repair want malformed, got %v", err)
	}
	got, err := ExtractJSON(raw, Options{RepairBackslashes: true})
	if err != nil {
		t.Fatalf("with repair error = %v", err)
	}
	var v map[string]string
	if err := json.Unmarshal(got, &v); err != nil {
		t.Fatal(err)
	}
	if v["telugu"] != `C:\path` {
		t.Fatalf("got %q", v["telugu"])
	}

	// Escaped quotes break once doubled; the untouched block is used instead.
	escaped := `{"q": "say \"hi\""}`
	got, err = ExtractJSON(escaped, Options{RepairBackslashes: true})
	if err != nil {
		t.Fatalf("escaped quotes error = %v", err)
	}
	if string(got) != escaped {
		t.Fatalf("got %s", got)
	}
}

func TestExtractJSONRepairKeepsEscapesLiteral(t *testing.T) {
	raw := `{"line": "one\ntwo"}`
	for _, tc := range []struct {
		repair bool
		want   string
	}{
		{true, `one\ntwo`},
		{false, "one\ntwo"},
	} {
		got, err := ExtractJSON(raw, Options{RepairBackslashes: tc.repair})
		if err != nil {
			t.Fatalf("repair=%v error = %v", tc.repair, err)
		}
		var v map[string]string
		if err := json.Unmarshal(got, &v); err != nil {
			t.Fatal(err)
		}
		if v["line"] != tc.want {
			t.Errorf("repair=%v got %q, want %q", tc.repair, v["line"], tc.want)
		}
	}
}

func TestDecodeLesson(t *testing.T) {
	raw := "Here you go:\n```json\n" + `{
  "summary": "A poem about honesty.",
  "reading_content": [
    {"telugu": "సత్యము", "pronunciation": "satyamu", "meaning": "truth"},
    {"telugu": "ధర్మము"}
  ],
  "vocabulary": [{"word": "నీతి", "meaning": "morality"}]
}` + "\n```"

	l, err := DecodeLesson(raw, Options{RepairBackslashes: true})
	if err != nil {
		t.Fatalf("DecodeLesson() error = %v", err)
	}
	if l.Summary != "A poem about honesty." || len(l.ReadingContent) != 2 || len(l.Vocabulary) != 1 {
		t.Fatalf("unexpected lesson %+v", l)
	}
	if l.ReadingContent[1].Meaning != "" || l.Vocabulary[0].Pronunciation != "" {
		t.Fatalf("absent fields should decode empty: %+v", l)
	}
}

func TestDecodeLessonWrongShape(t *testing.T) {
	_, err := DecodeLesson(`{"reading_content": "not a list"}`, Options{})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestDecodeExercises(t *testing.T) {
	raw := `{"exercises": [{"question_telugu": "ప్రశ్న", "question_meaning": "question", "answer_telugu": "జవాబు", "answer_pronunciation": null}]}`
	set, err := DecodeExercises(raw, Options{})
	if err != nil {
		t.Fatalf("DecodeExercises() error = %v", err)
	}
	if len(set.Exercises) != 1 || set.Exercises[0].AnswerTelugu != "జవాబు" || set.Exercises[0].AnswerPronunciation != "" {
		t.Fatalf("unexpected set %+v", set)
	}

	if _, err := DecodeExercises("the model refused", Options{}); !errors.Is(err, ErrNoPayload) {
		t.Fatalf("want ErrNoPayload, got %v", err)
	}
}
