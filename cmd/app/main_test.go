package main

import (
    "context"
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/local/studyguide/internal/config"
    "github.com/local/studyguide/internal/imagerender"
)

// runEnv points logs and metrics into a temp dir and clears the API key.
func runEnv(t *testing.T) (dir, metricsFile string) {
    t.Helper()
    dir = t.TempDir()
    metricsFile = filepath.Join(dir, "studyguide.prom")
    t.Setenv("METRICS_FILE", metricsFile)
    t.Setenv("LOG_FILE", filepath.Join(dir, "logs", "studyguide.log"))
    t.Setenv("LOG_PRETTY", "false")
    t.Setenv("GEMINI_API_KEY", "")
    t.Cleanup(func() { onlyChapter, rasterizeRGB = "", false })
    return dir, metricsFile
}

func TestFailedRunStillWritesMetrics(t *testing.T) {
    dir, metricsFile := runEnv(t)

    err := execute(context.Background(), []string{"translate", "--env", filepath.Join(dir, "none.env")})
    if !config.IsConfigError(err) {
        t.Fatalf("want config error for missing API key, got %v", err)
    }
    if _, err := os.Stat(metricsFile); err != nil {
        t.Fatalf("metrics file not written after failed run: %v", err)
    }
}

func TestOrganizeSingleChapter(t *testing.T) {
    dir, metricsFile := runEnv(t)
    in := filepath.Join(dir, "pages")
    out := filepath.Join(dir, "class5")
    if err := os.MkdirAll(in, 0o755); err != nil {
        t.Fatal(err)
    }
    if err := os.WriteFile(filepath.Join(in, "89.txt"), []byte("రామప్ప"), 0o644); err != nil {
        t.Fatal(err)
    }

    args := []string{"organize", "--env", filepath.Join(dir, "none.env"), "--input", in, "--output", out, "--chapter", "09_Ramappa"}
    if err := execute(context.Background(), args); err != nil {
        t.Fatalf("organize error = %v", err)
    }
    b, err := os.ReadFile(filepath.Join(out, "09_Ramappa", "lesson.md"))
    if err != nil || !strings.Contains(string(b), "--- Page 89 ---\n\nరామప్ప") {
        t.Fatalf("lesson.md = %q, %v", b, err)
    }
    if _, err := os.Stat(filepath.Join(out, "06_Shataka_Padyalu")); !errors.Is(err, os.ErrNotExist) {
        t.Fatalf("other chapters should not be written, stat err = %v", err)
    }
    if _, err := os.Stat(metricsFile); err != nil {
        t.Fatal(err)
    }

    args[len(args)-1] = "99_Unknown"
    if err := execute(context.Background(), args); !config.IsConfigError(err) {
        t.Fatalf("unknown chapter: want config error, got %v", err)
    }
}

func TestRasterOptions(t *testing.T) {
    rasterizeRGB = false
    if got := rasterOptions(); got.Color != imagerender.ColorGray || got.DPI != imagerender.DefaultDPI {
        t.Fatalf("default = %+v", got)
    }
    rasterizeRGB = true
    defer func() { rasterizeRGB = false }()
    if got := rasterOptions(); got.Color != imagerender.ColorRGB {
        t.Fatalf("rgb = %+v", got)
    }
}
