package orchestrator

import (
    "strings"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/local/studyguide/internal/config"
    mpkg "github.com/local/studyguide/internal/metrics"
)

// Stage is how far a chapter got.
type Stage string

const (
    StagePending           Stage = "PENDING"
    StageLessonGenerated   Stage = "LESSON_GENERATED"
    StageExerciseGenerated Stage = "EXERCISE_GENERATED"
    StageWritten           Stage = "WRITTEN"
    StageFailed            Stage = "FAILED"
)

// Outcome is the final verdict of a chapter.
type Outcome string

const (
    OutcomeSucceeded Outcome = "succeeded"
    OutcomeSkipped   Outcome = "skipped" // at least one document could not be parsed
    OutcomeFailed    Outcome = "failed"
)

// ChapterResult records what happened to one chapter.
type ChapterResult struct {
    Folder  string
    Stage   Stage
    Outcome Outcome
    Reason  string
    Files   []string
}

func (r *ChapterResult) advance(s Stage) { r.Stage = s }

func (r *ChapterResult) skip(reason string) {
    r.Outcome = OutcomeSkipped
    if r.Reason != "" { r.Reason += "; " }
    r.Reason += reason
}

func (r *ChapterResult) fail(err error) {
    r.Stage = StageFailed
    r.Outcome = OutcomeFailed
    if r.Reason != "" { r.Reason += "; " }
    r.Reason += err.Error()
}

// Summary is the result of one workflow run.
type Summary struct {
    RunID    string
    Workflow string
    Chapters []ChapterResult
    Duration time.Duration
}

// Count returns how many chapters ended with outcome.
func (s Summary) Count(o Outcome) int {
    n := 0
    for _, c := range s.Chapters {
        if c.Outcome == o { n++ }
    }
    return n
}

// Failed reports whether any chapter failed.
func (s Summary) Failed() bool { return s.Count(OutcomeFailed) > 0 }

// Log writes one line per chapter and a closing total line.
func (s Summary) Log() {
    for _, c := range s.Chapters {
        ev := log.Info()
        if c.Outcome == OutcomeFailed { ev = log.Error() } else if c.Outcome == OutcomeSkipped { ev = log.Warn() }
        ev.Str("run_id", s.RunID).
            Str("workflow", s.Workflow).
            Str("chapter", c.Folder).
            Str("stage", string(c.Stage)).
            Str("outcome", string(c.Outcome)).
            Str("reason", c.Reason).
            Str("files", strings.Join(c.Files, ",")).
            Msg("chapter result")
    }
    log.Info().
        Str("run_id", s.RunID).
        Str("workflow", s.Workflow).
        Int("succeeded", s.Count(OutcomeSucceeded)).
        Int("skipped", s.Count(OutcomeSkipped)).
        Int("failed", s.Count(OutcomeFailed)).
        Dur("duration", s.Duration).
        Msg("run complete")
}

// abandon records chapters that never ran because the run was interrupted.
func (s *Summary) abandon(chapters []config.ChapterSpec, err error) {
    for _, ch := range chapters {
        r := ChapterResult{Folder: ch.Folder, Stage: StagePending}
        r.fail(err)
        s.add(r)
    }
}

func (s *Summary) add(r ChapterResult) {
    if r.Outcome == "" { r.Outcome = OutcomeSucceeded }
    mpkg.IncChapter(s.Workflow, string(r.Outcome))
    s.Chapters = append(s.Chapters, r)
}
