package main

import (
    "context"

    "github.com/rs/zerolog/log"
    "github.com/spf13/cobra"

    "github.com/local/studyguide/internal/ai"
    "github.com/local/studyguide/internal/config"
    "github.com/local/studyguide/internal/orchestrator"
)

var translateCmd = &cobra.Command{
    Use:   "translate",
    Short: "Translate each configured chapter of the PDF with the document model",
    RunE: func(cmd *cobra.Command, args []string) error {
        return runDocument(cmd.Context(), (*orchestrator.Orchestrator).Translate)
    },
}

var guideCmd = &cobra.Command{
    Use:   "guide",
    Short: "Build HTML study guides for each configured chapter of the PDF",
    RunE: func(cmd *cobra.Command, args []string) error {
        return runDocument(cmd.Context(), (*orchestrator.Orchestrator).Guide)
    },
}

type documentWorkflow func(*orchestrator.Orchestrator, context.Context, config.ChapterFile) (orchestrator.Summary, error)

func runDocument(ctx context.Context, run documentWorkflow) error {
    if err := cfg.RequireAPIKey(); err != nil {
        return err
    }
    cf, err := config.LoadChapters(cfg.Paths.ChaptersFile)
    if err != nil {
        return err
    }

    client := ai.NewGeminiClient(cfg.Gemini.APIKey, ai.WithBaseURL(cfg.Gemini.BaseURL))
    o := orchestrator.New(cfg, orchestrator.Dependencies{Model: client})
    log.Info().
        Str("run_id", o.RunID()).
        Str("pdf", cf.PDFPath).
        Int("chapters", len(cf.Chapters)).
        Msg("starting document run")

    sum, err := run(o, ctx, cf)
    if err != nil {
        log.Error().Err(err).Str("run_id", o.RunID()).Msg("run aborted before the first chapter")
        return err
    }
    return finish(sum)
}
