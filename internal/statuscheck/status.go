// Package statuscheck reports whether the external pieces a run depends on are usable.
package statuscheck

import (
    "context"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "slices"
    "strings"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/local/studyguide/internal/ai"
    "github.com/local/studyguide/internal/assembler"
)

// ModelLister is the part of the document-model client the check needs.
type ModelLister interface {
    ListModels(ctx context.Context) ([]ai.Model, error)
}

// BucketHeader checks that an S3 bucket is reachable.
type BucketHeader interface {
    HeadBucket(ctx context.Context, bucket string) error
}

// Checker aggregates health checks for the workflows.
type Checker struct {
    models       ModelLister
    apiKey       string
    preferred    string
    s3           BucketHeader
    s3Bucket     string
    ocrVersion   func() string
    ocrLanguages func() ([]string, error)
    language     string
    inputDir     string
    imageDir     string
    templateDir  string
}

// Options configures the Checker. Nil S3 skips the bucket check.
type Options struct {
    Models       ModelLister
    APIKey       string
    Model        string
    S3           BucketHeader
    S3Bucket     string
    OCRVersion   func() string
    OCRLanguages func() ([]string, error)
    Language     string
    InputDir     string
    ImageDir     string
    TemplateDir  string
}

// Status represents the readiness of a subsystem.
type Status struct {
    OK      bool   `json:"ok"`
    Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
    Gemini    Status `json:"gemini"`
    S3        Status `json:"s3"`
    Tesseract Status `json:"tesseract"`
    Language  Status `json:"language"`
    InputDir  Status `json:"input_dir"`
    ImageDir  Status `json:"image_dir"`
    Templates Status `json:"templates"`
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
    return &Checker{
        models:       opts.Models,
        apiKey:       strings.TrimSpace(opts.APIKey),
        preferred:    opts.Model,
        s3:           opts.S3,
        s3Bucket:     opts.S3Bucket,
        ocrVersion:   opts.OCRVersion,
        ocrLanguages: opts.OCRLanguages,
        language:     opts.Language,
        inputDir:     opts.InputDir,
        imageDir:     opts.ImageDir,
        templateDir:  opts.TemplateDir,
    }
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
    return Summary{
        Gemini:    c.checkGemini(ctx),
        S3:        c.checkS3(ctx),
        Tesseract: c.checkTesseract(),
        Language:  c.checkLanguage(),
        InputDir:  checkDir(c.inputDir),
        ImageDir:  checkDir(c.imageDir),
        Templates: c.checkTemplates(),
    }
}

// Required reports whether every check a document-model run needs passed.
// The S3 check only matters when a bucket is configured.
func (s Summary) Required() bool {
    return s.Gemini.OK && s.Templates.OK && (s.S3.OK || s.S3.Message == msgNotConfigured)
}

// Log writes one line per subsystem.
func (s Summary) Log() {
    for _, e := range []struct {
        name string
        st   Status
    }{
        {"gemini", s.Gemini}, {"s3", s.S3}, {"tesseract", s.Tesseract}, {"language", s.Language},
        {"input_dir", s.InputDir}, {"image_dir", s.ImageDir}, {"templates", s.Templates},
    } {
        ev := log.Info()
        if !e.st.OK { ev = log.Warn() }
        ev.Str("check", e.name).Bool("ok", e.st.OK).Msg(e.st.Message)
    }
}

const msgNotConfigured = "Bucket not configured"

func (c *Checker) checkGemini(ctx context.Context) Status {
    if c.apiKey == "" {
        return Status{OK: false, Message: "API key missing"}
    }
    if c.models == nil {
        return Status{OK: false, Message: "client unavailable"}
    }
    ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
    defer cancel()
    models, err := c.models.ListModels(ctx)
    if err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    m, err := ai.SelectModel(models, ai.MethodGenerateContent, c.preferred)
    if err != nil {
        return Status{OK: false, Message: fmt.Sprintf("%d models listed, none usable", len(models))}
    }
    return Status{OK: true, Message: "Available (" + m.Name + ")"}
}

func (c *Checker) checkS3(ctx context.Context) Status {
    if c.s3Bucket == "" || c.s3 == nil {
        return Status{OK: false, Message: msgNotConfigured}
    }
    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := c.s3.HeadBucket(ctx, c.s3Bucket); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func (c *Checker) checkTesseract() Status {
    if c.ocrVersion == nil {
        return Status{OK: false, Message: "engine unavailable"}
    }
    v := c.ocrVersion()
    if v == "" {
        return Status{OK: false, Message: "Library not found"}
    }
    return Status{OK: true, Message: "tesseract " + v}
}

func (c *Checker) checkLanguage() Status {
    if c.ocrLanguages == nil {
        return Status{OK: false, Message: "engine unavailable"}
    }
    langs, err := c.ocrLanguages()
    if err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    for _, want := range strings.Split(c.language, "+") {
        if !slices.Contains(langs, want) {
            return Status{OK: false, Message: "traineddata missing: " + want}
        }
    }
    return Status{OK: true, Message: "Installed (" + c.language + ")"}
}

func (c *Checker) checkTemplates() Status {
    if _, err := assembler.LoadTemplates(c.templateDir); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Found in " + c.templateDir}
}

func checkDir(dir string) Status {
    if dir == "" {
        return Status{OK: false, Message: "not configured"}
    }
    fi, err := os.Stat(dir)
    if err != nil {
        return Status{OK: false, Message: "Missing"}
    }
    if !fi.IsDir() {
        return Status{OK: false, Message: "Not a directory"}
    }
    entries, err := os.ReadDir(dir)
    if err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: fmt.Sprintf("%d files in %s", len(entries), filepath.Clean(dir))}
}

func trimError(err error) string {
    if err == nil {
        return ""
    }
    var netErr interface{ Timeout() bool }
    if errors.As(err, &netErr) && netErr.Timeout() {
        return "timeout"
    }
    msg := err.Error()
    if len(msg) > 120 {
        return msg[:120]
    }
    return msg
}
