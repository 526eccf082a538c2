package orchestrator

import (
    "context"
    "errors"
    "fmt"
    "os"
    "path"
    "strings"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/local/studyguide/internal/ai"
    "github.com/local/studyguide/internal/assembler"
    "github.com/local/studyguide/internal/config"
    "github.com/local/studyguide/internal/parser"
)

const (
    WorkflowTranslate = "translate"
    WorkflowGuide     = "guide"
)

// Document is the uploaded source shared read-only by every chapter of a run.
type Document struct {
    File     ai.File
    MIMEType string
    Model    ai.Model
    Pages    int
}

// PrepareDocument fetches the source PDF, checks the chapter ranges against
// it, uploads it once, waits for processing and selects a model.
// Any error here aborts the run before the first chapter.
func (o *Orchestrator) PrepareDocument(ctx context.Context, cf config.ChapterFile) (Document, error) {
    if o.deps.Model == nil { return Document{}, errors.New("no document model configured") }

    local, tmp, err := ensureLocalPDF(ctx, cf.PDFPath, o.cfg.S3)
    if err != nil {
        return Document{}, &config.Error{Key: "pdf_path", Reason: "cannot fetch " + cf.PDFPath, Err: err}
    }
    if tmp != "" { defer os.Remove(tmp) }

    info, err := o.detector.RequirePDF(local)
    if err != nil {
        return Document{}, &config.Error{Key: "pdf_path", Reason: "not a usable PDF", Err: err}
    }

    doc := Document{MIMEType: info.MIMEType}
    doc.Pages, err = checkPageRanges(local, cf)
    if config.IsConfigError(err) { return Document{}, err }
    if err != nil {
        log.Warn().Err(err).Str("pdf", cf.PDFPath).Msg("could not count pages; chapter ranges not checked")
    }

    display := fmt.Sprintf("%s-%s", strings.TrimSuffix(path.Base(cf.PDFPath), ".pdf"), o.runID[:8])
    log.Info().Str("run_id", o.runID).Str("pdf", cf.PDFPath).Int("pages", doc.Pages).Msg("uploading source document")
    f, err := o.deps.Model.UploadFile(ctx, local, info.MIMEType, display)
    if err != nil { return Document{}, fmt.Errorf("upload %s: %w", cf.PDFPath, err) }

    f, err = o.deps.Model.WaitForFile(ctx, f, o.cfg.Gemini.PollInterval)
    if err != nil { return Document{}, err }
    doc.File = f
    if f.MIMEType != "" { doc.MIMEType = f.MIMEType }

    models, err := o.deps.Model.ListModels(ctx)
    if err != nil { return Document{}, fmt.Errorf("list models: %w", err) }
    doc.Model, err = ai.SelectModel(models, ai.MethodGenerateContent, o.cfg.Gemini.Model)
    if err != nil { return Document{}, err }
    if pref := o.cfg.Gemini.Model; pref != "" && doc.Model.Name != ai.NormalizeModelName(pref) {
        log.Warn().Str("run_id", o.runID).Str("preferred", pref).Str("model", doc.Model.Name).
            Msg("preferred model not listed for generateContent; using first qualifying model")
    }

    log.Info().Str("run_id", o.runID).Str("file", f.Name).Str("model", doc.Model.Name).Msg("document ready")
    return doc, nil
}

// Translate asks for a free-text translation of every chapter and writes
// lesson.md and exercise.md, split at the separator line.
func (o *Orchestrator) Translate(ctx context.Context, cf config.ChapterFile) (Summary, error) {
    doc, err := o.PrepareDocument(ctx, cf)
    if err != nil { return Summary{RunID: o.runID, Workflow: WorkflowTranslate}, err }
    return o.runDocument(ctx, WorkflowTranslate, cf.Chapters, func(ch config.ChapterSpec) ChapterResult {
        return o.translateChapter(ctx, doc, ch)
    }), nil
}

// Guide asks for structured lesson and exercise payloads of every chapter
// and renders them into lesson.html and exercise.html.
func (o *Orchestrator) Guide(ctx context.Context, cf config.ChapterFile) (Summary, error) {
    tpl, err := assembler.LoadTemplates(o.cfg.Paths.TemplateDir)
    if err != nil { return Summary{RunID: o.runID, Workflow: WorkflowGuide}, err }
    doc, err := o.PrepareDocument(ctx, cf)
    if err != nil { return Summary{RunID: o.runID, Workflow: WorkflowGuide}, err }
    return o.runDocument(ctx, WorkflowGuide, cf.Chapters, func(ch config.ChapterSpec) ChapterResult {
        return o.guideChapter(ctx, doc, tpl, ch)
    }), nil
}

func (o *Orchestrator) runDocument(ctx context.Context, workflow string, chapters []config.ChapterSpec, run func(config.ChapterSpec) ChapterResult) Summary {
    start := time.Now()
    sum := Summary{RunID: o.runID, Workflow: workflow}
    for i, ch := range chapters {
        if err := ctx.Err(); err != nil {
            sum.abandon(chapters[i:], err)
            break
        }
        sum.add(run(ch))
        if err := o.pause(ctx, i, len(chapters)); err != nil {
            log.Warn().Err(err).Str("run_id", o.runID).Int("remaining", len(chapters)-i-1).Msg("run interrupted")
            sum.abandon(chapters[i+1:], err)
            break
        }
    }
    sum.Duration = time.Since(start)
    return sum
}

func (o *Orchestrator) generate(ctx context.Context, doc Document, prompt string, jsonMode bool) (string, error) {
    resp, err := o.deps.Caller.Call(ctx, ai.Request{
        Model:    doc.Model.Name,
        Prompt:   prompt,
        FileURI:  doc.File.URI,
        FileMIME: doc.MIMEType,
        JSON:     jsonMode,
    })
    return resp.Text, err
}

func (o *Orchestrator) translateChapter(ctx context.Context, doc Document, ch config.ChapterSpec) ChapterResult {
    lg := o.chapterLogger(WorkflowTranslate, ch)
    lg.Info().Str("pages", ch.Span().String()).Msg("translating chapter")
    res := ChapterResult{Folder: ch.Folder, Stage: StagePending}

    text, err := o.generate(ctx, doc, translatePrompt(ch), false)
    if err != nil {
        lg.Error().Err(err).Msg("chapter failed")
        res.fail(err)
        return res
    }

    lessonPart, exercisePart, found := parser.Split(text, parser.SplitMarker, parser.MissingExercises)
    if !found {
        lg.Warn().Msg("separator missing from response; exercise section replaced by placeholder")
        res.Reason = "separator missing"
    }
    lesson, exercise := assembler.TranslationDocuments(ch.Topic, lessonPart, exercisePart)
    res.advance(StageLessonGenerated)
    res.advance(StageExerciseGenerated)

    for _, d := range []struct{ name, content string }{{"lesson.md", lesson}, {"exercise.md", exercise}} {
        files, err := o.out.WriteMarkdown(ch.Folder, d.name, d.content)
        res.Files = append(res.Files, files...)
        if err != nil {
            lg.Error().Err(err).Str("file", d.name).Msg("chapter failed")
            res.fail(err)
            return res
        }
    }
    res.advance(StageWritten)
    lg.Info().Msg("chapter completed")
    return res
}

func (o *Orchestrator) guideChapter(ctx context.Context, doc Document, tpl assembler.Templates, ch config.ChapterSpec) ChapterResult {
    lg := o.chapterLogger(WorkflowGuide, ch)
    opts := parser.Options{RepairBackslashes: o.cfg.RepairBackslashes}
    res := ChapterResult{Folder: ch.Folder, Stage: StagePending}

    write := func(name, content string) error {
        p, err := o.out.Write(ch.Folder, name, content)
        if err != nil { return err }
        res.Files = append(res.Files, p)
        return nil
    }

    lg.Info().Str("pages", ch.Lesson.String()).Msg("generating lesson")
    text, err := o.generate(ctx, doc, lessonPrompt(ch), true)
    if err != nil {
        lg.Error().Err(err).Msg("chapter failed")
        res.fail(err)
        return res
    }
    if lesson, perr := parser.DecodeLesson(text, opts); perr != nil {
        lg.Warn().Err(perr).Msg("lesson payload not parsable; lesson.html skipped")
        res.skip("lesson: " + perr.Error())
    } else if err := write("lesson.html", tpl.LessonHTML(ch.Topic, lesson)); err != nil {
        lg.Error().Err(err).Msg("chapter failed")
        res.fail(err)
        return res
    }
    res.advance(StageLessonGenerated)

    lg.Info().Str("pages", ch.Exercise.String()).Msg("generating exercises")
    text, err = o.generate(ctx, doc, exercisePrompt(ch), true)
    if err != nil {
        lg.Error().Err(err).Msg("chapter failed")
        res.fail(err)
        return res
    }
    if set, perr := parser.DecodeExercises(text, opts); perr != nil {
        lg.Warn().Err(perr).Msg("exercise payload not parsable; exercise.html skipped")
        res.skip("exercise: " + perr.Error())
    } else if err := write("exercise.html", tpl.ExerciseHTML(ch.Topic, set)); err != nil {
        lg.Error().Err(err).Msg("chapter failed")
        res.fail(err)
        return res
    }
    res.advance(StageExerciseGenerated)
    res.advance(StageWritten)
    lg.Info().Int("files", len(res.Files)).Msg("chapter completed")
    return res
}
