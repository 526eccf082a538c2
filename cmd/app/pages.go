package main

import (
    "github.com/rs/zerolog/log"
    "github.com/spf13/cobra"

    "github.com/local/studyguide/internal/config"
    "github.com/local/studyguide/internal/extract"
    "github.com/local/studyguide/internal/imagerender"
    "github.com/local/studyguide/internal/locator"
    "github.com/local/studyguide/internal/ocr"
    "github.com/local/studyguide/internal/orchestrator"
    "github.com/local/studyguide/internal/pdftest"
)

var (
    importImages bool
    rasterizePDF string
    rasterizeRGB bool
    onlyChapter  string
)

var organizeCmd = &cobra.Command{
    Use:   "organize",
    Short: "Group page text files into lesson and exercise documents",
    RunE: func(cmd *cobra.Command, args []string) error {
        chapters, err := tableChapters()
        if err != nil {
            return err
        }
        engine := ocr.NewTesseract(cfg.OCRLanguage)
        src := extract.NewTextSource(locator.New(cfg.Paths.InputDir), engine)
        o := orchestrator.New(cfg, orchestrator.Dependencies{})
        log.Info().Str("run_id", o.RunID()).Str("input", cfg.Paths.InputDir).Msg("organizing pages")
        return finish(o.Organize(cmd.Context(), chapters, src))
    },
}

var scanCmd = &cobra.Command{
    Use:   "scan",
    Short: "OCR page images into lesson and exercise documents",
    RunE: func(cmd *cobra.Command, args []string) error {
        chapters, err := tableChapters()
        if err != nil {
            return err
        }

        if rasterizePDF != "" {
            if err := rasterize(rasterizePDF, chapters); err != nil {
                return err
            }
        }
        if importImages {
            moved, err := locator.ImportImages(cfg.Paths.ImageSourceDir, cfg.Paths.ImageDir)
            if err != nil {
                return &config.Error{Key: "IMAGE_DIR", Reason: "cannot import page images", Err: err}
            }
            log.Info().Int("moved", len(moved)).Str("dir", cfg.Paths.ImageDir).Msg("imported page images")
        }

        engine := ocr.NewTesseract(cfg.OCRLanguage)
        log.Info().Str("tesseract", ocr.Version()).Str("lang", cfg.OCRLanguage).Msg("ocr engine ready")
        src := extract.NewOCRSource(locator.New(cfg.Paths.ImageDir), engine)
        o := orchestrator.New(cfg, orchestrator.Dependencies{})
        return finish(o.Scan(cmd.Context(), chapters, src))
    },
}

func init() {
    for _, c := range []*cobra.Command{organizeCmd, scanCmd} {
        c.Flags().StringVar(&onlyChapter, "chapter", "", "process only this chapter folder, e.g. 09_Ramappa")
    }
    scanCmd.Flags().BoolVar(&rasterizeRGB, "rgb", false, "rasterize in color instead of grayscale")
    scanCmd.Flags().BoolVar(&importImages, "import", false, "move page-<n>.png files from IMAGE_SOURCE_DIR into IMAGE_DIR first")
    scanCmd.Flags().StringVar(&rasterizePDF, "rasterize", "", "render the chapter pages of this PDF into IMAGE_DIR first")
}

// tableChapters returns the chapter table, or the single entry named by --chapter.
func tableChapters() ([]config.ChapterSpec, error) {
    if onlyChapter == "" {
        return config.ChapterTable(), nil
    }
    ch, ok := config.Lookup(onlyChapter)
    if !ok {
        return nil, &config.Error{Key: "chapter", Reason: "no table entry for " + onlyChapter}
    }
    return []config.ChapterSpec{ch}, nil
}

// rasterize renders every page the chapters cover.
func rasterize(pdfPath string, chapters []config.ChapterSpec) error {
    var pages []int
    seen := map[int]bool{}
    for _, ch := range chapters {
        for _, p := range ch.Span().Pages() {
            if !seen[p] {
                seen[p] = true
                pages = append(pages, p)
            }
        }
    }

    hasText, diag, err := pdftest.HasExtractableText(pdfPath, pages, pdftest.DefaultThreshold)
    if err != nil {
        return &config.Error{Key: "rasterize", Reason: "cannot open " + pdfPath, Err: err}
    }
    if hasText {
        log.Info().Int("chars", diag.TotalCharsInSample).Msg("PDF has a text layer; OCR output may duplicate it")
    }

    files, err := imagerender.RasterizePages(pdfPath, cfg.Paths.ImageDir, pages, rasterOptions())
    if err != nil {
        return err
    }
    log.Info().Int("pages", len(files)).Str("dir", cfg.Paths.ImageDir).Msg("rasterized chapter pages")
    return nil
}

func rasterOptions() imagerender.Options {
    opts := imagerender.Options{DPI: imagerender.DefaultDPI, Color: imagerender.ColorGray}
    if rasterizeRGB { opts.Color = imagerender.ColorRGB }
    return opts
}
