package main

import (
    "errors"
    "io/fs"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"
    "github.com/spf13/cobra"

    "github.com/local/studyguide/internal/config"
    logpkg "github.com/local/studyguide/internal/logger"
    mpkg "github.com/local/studyguide/internal/metrics"
    "github.com/local/studyguide/internal/orchestrator"
)

var (
    cfg     config.Config
    envFile string

    inputDir    string
    outputDir   string
    chapterFile string
    templateDir string
    ocrLang     string
    delay       time.Duration
)

var rootCmd = &cobra.Command{
    Use:   "studyguide",
    Short: "Build chapter study guides from a scanned Class 5 Telugu reader",
    Long: `studyguide turns textbook pages into per-chapter lesson and exercise documents.

Workflows:
  organize   page text files -> lesson.md / exercise.md with page delimiters
  scan       page images via Tesseract -> lesson_<id>.md / exercise_<id>.md
  translate  uploaded PDF via Gemini -> translated lesson.md / exercise.md
  guide      uploaded PDF via Gemini JSON mode -> lesson.html / exercise.html
  doctor     check credentials, OCR models, folders and templates`,
    SilenceUsage:      true,
    SilenceErrors:     true,
    PersistentPreRunE: setup,
}

func init() {
    pf := rootCmd.PersistentFlags()
    pf.StringVar(&envFile, "env", ".env", "dotenv file loaded before reading the environment")
    pf.StringVar(&inputDir, "input", "", "folder of page text files (INPUT_DIR)")
    pf.StringVar(&outputDir, "output", "", "root folder for chapter output (OUTPUT_DIR)")
    pf.StringVar(&chapterFile, "config", "", "chapter configuration JSON (CHAPTERS_FILE)")
    pf.StringVar(&templateDir, "templates", "", "folder holding the HTML templates (TEMPLATE_DIR)")
    pf.StringVar(&ocrLang, "lang", "", "tesseract language models, e.g. tel or tel+eng (OCR_LANG)")
    pf.DurationVar(&delay, "delay", 0, "pause between chapters of a document-model run (CHAPTER_DELAY)")

    rootCmd.AddCommand(organizeCmd, scanCmd, translateCmd, guideCmd, doctorCmd)
}

func setup(cmd *cobra.Command, args []string) error {
    if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
        return &config.Error{Key: "env", Reason: "cannot read " + envFile, Err: err}
    }
    cfg = config.FromEnv()

    flags := cmd.Flags()
    if flags.Changed("input") { cfg.Paths.InputDir = inputDir }
    if flags.Changed("output") { cfg.Paths.OutputDir = outputDir }
    if flags.Changed("config") { cfg.Paths.ChaptersFile = chapterFile }
    if flags.Changed("templates") { cfg.Paths.TemplateDir = templateDir }
    if flags.Changed("lang") { cfg.OCRLanguage = ocrLang }
    if flags.Changed("delay") { cfg.ChapterDelay = delay }

    // Init logging
    if err := logpkg.Init(logpkg.Options{
        Level:        cfg.Logging.Level,
        Pretty:       cfg.Logging.Pretty,
        File:         cfg.Logging.File,
        MaxSizeMB:    cfg.Logging.MaxSizeMB,
        MaxBackups:   cfg.Logging.MaxBackups,
        MaxAgeDays:   cfg.Logging.MaxAgeDays,
        Compress:     cfg.Logging.Compress,
        SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey:  cfg.Axiom.APIKey,
        AxiomOrgID:   cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush:   cfg.Axiom.FlushInterval,
    }); err != nil {
        log.Warn().Err(err).Msg("logger init incomplete")
    }
    mpkg.Init()

    if n := orchestrator.CleanupTemps(24 * time.Hour); n > 0 {
        log.Info().Int("removed", n).Msg("removed stale downloaded sources")
    }
    log.Debug().Str("command", cmd.Name()).Str("output", cfg.Paths.OutputDir).Msg("configuration loaded")
    return nil
}

// teardown writes the metrics textfile and flushes external loggers.
// It runs after every command, including ones that returned an error.
func teardown() {
    if err := mpkg.WriteTextfile(cfg.MetricsFile); err != nil {
        log.Warn().Err(err).Str("file", cfg.MetricsFile).Msg("failed to write metrics textfile")
    }
    logpkg.Close()
}

// finish logs the run summary and turns failed chapters into a non-zero exit.
func finish(sum orchestrator.Summary) error {
    sum.Log()
    if sum.Failed() {
        return errChaptersFailed
    }
    return nil
}
