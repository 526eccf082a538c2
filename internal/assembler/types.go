package assembler

// Line is one row of the reading section: source text, transliteration, gloss.
type Line struct {
	Telugu        string `json:"telugu"`
	Pronunciation string `json:"pronunciation"`
	Meaning       string `json:"meaning"`
}

// Word is one vocabulary entry.
type Word struct {
	Word          string `json:"word"`
	Pronunciation string `json:"pronunciation"`
	Meaning       string `json:"meaning"`
}

// Lesson is the structured lesson payload returned in JSON mode.
type Lesson struct {
	Summary        string `json:"summary"`
	ReadingContent []Line `json:"reading_content"`
	Vocabulary     []Word `json:"vocabulary"`
}

// Exercise is one solved question.
type Exercise struct {
	QuestionTelugu        string `json:"question_telugu"`
	QuestionPronunciation string `json:"question_pronunciation"`
	QuestionMeaning       string `json:"question_meaning"`
	AnswerTelugu          string `json:"answer_telugu"`
	AnswerPronunciation   string `json:"answer_pronunciation"`
}

// ExerciseSet is the structured exercise payload returned in JSON mode.
type ExerciseSet struct {
	Exercises []Exercise `json:"exercises"`
}
