package orchestrator

import (
    "context"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/local/studyguide/internal/ai"
    "github.com/local/studyguide/internal/config"
    "github.com/local/studyguide/internal/dispatcher"
    "github.com/local/studyguide/internal/filetype"
)

// DocumentModel is the generative provider used by the translate and guide workflows.
type DocumentModel interface {
    ai.Client
    UploadFile(ctx context.Context, path, mimeType, displayName string) (ai.File, error)
    WaitForFile(ctx context.Context, f ai.File, interval time.Duration) (ai.File, error)
    ListModels(ctx context.Context) ([]ai.Model, error)
}

// SleepFunc pauses between chapters. It returns early with ctx's error.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Dependencies are the external collaborators of a run.
type Dependencies struct {
    Model  DocumentModel
    Caller *dispatcher.Caller // built from Model and the retry config when nil
    Sleep  SleepFunc
}

// Orchestrator drives chapters through extraction, parsing, assembly and writing.
type Orchestrator struct {
    cfg      config.Config
    deps     Dependencies
    out      Writer
    detector *filetype.Detector
    runID    string
}

func New(cfg config.Config, deps Dependencies) *Orchestrator {
    if deps.Sleep == nil { deps.Sleep = sleepCtx }
    if deps.Caller == nil && deps.Model != nil {
        deps.Caller = dispatcher.NewCaller(deps.Model, cfg.Retry, cfg.Gemini.RequestTimeout)
    }
    return &Orchestrator{
        cfg:      cfg,
        deps:     deps,
        out:      Writer{BaseDir: cfg.Paths.OutputDir, RenderHTML: cfg.RenderHTML},
        detector: filetype.New(),
        runID:    uuid.NewString(),
    }
}

// RunID identifies this run in logs.
func (o *Orchestrator) RunID() string { return o.runID }

func (o *Orchestrator) chapterLogger(workflow string, ch config.ChapterSpec) zerolog.Logger {
    return log.With().
        Str("run_id", o.runID).
        Str("workflow", workflow).
        Str("chapter", ch.Folder).
        Int("chapter_id", ch.ID).
        Logger()
}

// pause waits between document-model chapters: after every chapter, whatever
// its outcome, except the last.
func (o *Orchestrator) pause(ctx context.Context, i, total int) error {
    if i >= total-1 || o.cfg.ChapterDelay <= 0 { return nil }
    log.Debug().Str("run_id", o.runID).Dur("delay", o.cfg.ChapterDelay).Msg("pausing before next chapter")
    return o.deps.Sleep(ctx, o.cfg.ChapterDelay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}
