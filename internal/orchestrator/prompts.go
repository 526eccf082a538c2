package orchestrator

import (
    "fmt"

    "github.com/local/studyguide/internal/config"
    "github.com/local/studyguide/internal/parser"
)

func translatePrompt(ch config.ChapterSpec) string {
    span := ch.Span()
    return fmt.Sprintf(`Analyze pages %d to %d of the provided PDF.
This is chapter: %s.

**TASK 1: TRANSLATION (Story/Poem)**
Extract the main story or poem from pages %d to %d. Ignore headers/footers.
Output a Markdown table: | Telugu | Pronunciation | Meaning |

**TASK 2: SEPARATOR**
Output exactly this string on a new line: %s

**TASK 3: EXERCISES**
Solve the exercises found in pages %d to %d.
Format:
#### Q: [Telugu Text]
* **Pronunciation:** ...
* **Meaning:** ...
* **Answer:** [Telugu Answer]
`, span.Start, span.End, ch.Topic, ch.Lesson.Start, ch.Lesson.End, parser.SplitMarker, ch.Exercise.Start, ch.Exercise.End)
}

func lessonPrompt(ch config.ChapterSpec) string {
    return fmt.Sprintf(`Use only pages %d to %d of the provided PDF. They hold the lesson of chapter "%s" of a Class 5 Telugu reader.
Ignore headers, footers and page numbers.

Return a single JSON object and nothing else:
{
  "summary": "three or four sentences in English describing the lesson",
  "reading_content": [
    {"telugu": "one line of the story or poem, verbatim", "pronunciation": "English transliteration", "meaning": "English meaning"}
  ],
  "vocabulary": [
    {"word": "difficult Telugu word from the lesson", "pronunciation": "English transliteration", "meaning": "English meaning"}
  ]
}
Keep reading_content in the order the lines appear on the pages.`, ch.Lesson.Start, ch.Lesson.End, ch.Topic)
}

func exercisePrompt(ch config.ChapterSpec) string {
    return fmt.Sprintf(`Use only pages %d to %d of the provided PDF. They hold the exercises of chapter "%s" of a Class 5 Telugu reader.
Solve every question found on these pages.

Return a single JSON object and nothing else:
{
  "exercises": [
    {
      "question_telugu": "the question, verbatim",
      "question_pronunciation": "English transliteration of the question",
      "question_meaning": "English meaning of the question",
      "answer_telugu": "the answer in Telugu",
      "answer_pronunciation": "English transliteration of the answer"
    }
  ]
}
Keep the questions in the order they appear.`, ch.Exercise.Start, ch.Exercise.End, ch.Topic)
}
