package orchestrator

import (
    "context"
    "fmt"
    "time"

    "github.com/local/studyguide/internal/assembler"
    "github.com/local/studyguide/internal/config"
    "github.com/local/studyguide/internal/extract"
)

const (
    WorkflowOrganize = "organize"
    WorkflowScan     = "scan"
)

// Organize builds lesson.md and exercise.md for every chapter from page text
// files, one delimiter block per page.
func (o *Orchestrator) Organize(ctx context.Context, chapters []config.ChapterSpec, src extract.Source) Summary {
    return o.runPages(ctx, WorkflowOrganize, chapters, func(ch config.ChapterSpec, r config.PageRange, lesson bool) (string, string) {
        pages := gather(ctx, src, r)
        if lesson {
            return "lesson.md", assembler.PageDocument(assembler.LessonTitle(r.Start, r.End), pages)
        }
        return "exercise.md", assembler.PageDocument(assembler.ExerciseTitle(r.Start, r.End), pages)
    })
}

// Scan builds lesson_<id>.md and exercise_<id>.md from OCR of page images.
func (o *Orchestrator) Scan(ctx context.Context, chapters []config.ChapterSpec, src extract.Source) Summary {
    return o.runPages(ctx, WorkflowScan, chapters, func(ch config.ChapterSpec, r config.PageRange, lesson bool) (string, string) {
        pages := gather(ctx, src, r)
        texts := make([]string, len(pages))
        for i, p := range pages {
            texts[i] = p.Text
        }
        kind := "exercise"
        if lesson { kind = "lesson" }
        return fmt.Sprintf("%s_%d.md", kind, ch.ID), assembler.OCRDocument(texts)
    })
}

type pageDocFunc func(ch config.ChapterSpec, r config.PageRange, lesson bool) (name, content string)

func (o *Orchestrator) runPages(ctx context.Context, workflow string, chapters []config.ChapterSpec, build pageDocFunc) Summary {
    start := time.Now()
    sum := Summary{RunID: o.runID, Workflow: workflow}
    for i, ch := range chapters {
        if err := ctx.Err(); err != nil {
            sum.abandon(chapters[i:], err)
            break
        }
        lg := o.chapterLogger(workflow, ch)
        lg.Info().Str("lesson_pages", ch.Lesson.String()).Str("exercise_pages", ch.Exercise.String()).Msg("processing chapter")

        res := ChapterResult{Folder: ch.Folder, Stage: StagePending}
        for _, lesson := range []bool{true, false} {
            r := ch.Exercise
            if lesson { r = ch.Lesson }
            name, content := build(ch, r, lesson)
            files, err := o.out.WriteMarkdown(ch.Folder, name, content)
            res.Files = append(res.Files, files...)
            if err != nil {
                lg.Error().Err(err).Str("file", name).Msg("chapter failed")
                res.fail(err)
                break
            }
            if lesson { res.advance(StageLessonGenerated) } else { res.advance(StageExerciseGenerated) }
        }
        if res.Stage != StageFailed { res.advance(StageWritten) }
        sum.add(res)
    }
    sum.Duration = time.Since(start)
    return sum
}

func gather(ctx context.Context, src extract.Source, r config.PageRange) []assembler.Page {
    pages := make([]assembler.Page, 0, r.End-r.Start+1)
    for _, p := range r.Pages() {
        pages = append(pages, assembler.Page{Number: p, Text: src.PageText(ctx, p)})
    }
    return pages
}
