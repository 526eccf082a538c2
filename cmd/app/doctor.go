package main

import (
    "encoding/json"
    "errors"
    "os"

    "github.com/rs/zerolog/log"
    "github.com/spf13/cobra"

    "github.com/local/studyguide/internal/ai"
    "github.com/local/studyguide/internal/ocr"
    "github.com/local/studyguide/internal/statuscheck"
    "github.com/local/studyguide/internal/storage"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
    Use:   "doctor",
    Short: "Check API access, OCR models, folders and templates",
    RunE: func(cmd *cobra.Command, args []string) error {
        ctx := cmd.Context()
        opts := statuscheck.Options{
            APIKey:       cfg.Gemini.APIKey,
            Model:        cfg.Gemini.Model,
            OCRVersion:   ocr.Version,
            OCRLanguages: ocr.AvailableLanguages,
            Language:     cfg.OCRLanguage,
            InputDir:     cfg.Paths.InputDir,
            ImageDir:     cfg.Paths.ImageDir,
            TemplateDir:  cfg.Paths.TemplateDir,
        }
        if cfg.Gemini.APIKey != "" {
            opts.Models = ai.NewGeminiClient(cfg.Gemini.APIKey, ai.WithBaseURL(cfg.Gemini.BaseURL))
        }
        if cfg.S3.Bucket != "" {
            s3c, err := storage.NewS3Client(ctx, cfg.S3)
            if err != nil {
                log.Warn().Err(err).Msg("s3 client unavailable")
            } else {
                opts.S3, opts.S3Bucket = s3c, cfg.S3.Bucket
            }
        }

        sum := statuscheck.New(opts).Summary(ctx)
        if doctorJSON {
            enc := json.NewEncoder(os.Stdout)
            enc.SetIndent("", "  ")
            _ = enc.Encode(sum)
        } else {
            sum.Log()
        }
        if !sum.Required() {
            return errors.New("document-model workflows are not ready")
        }
        return nil
    },
}

func init() {
    doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "print the report as JSON")
}
