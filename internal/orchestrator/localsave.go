package orchestrator

import (
    "encoding/hex"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "github.com/rs/zerolog/log"
    "golang.org/x/crypto/blake2b"

    "github.com/local/studyguide/internal/assembler"
)

// Writer stores chapter documents under <BaseDir>/<folder>/<name>.
// Paths depend only on folder and name, so re-runs overwrite in place.
type Writer struct {
    BaseDir    string
    RenderHTML bool // also write an .html rendering next to every .md
}

// Write stores content and returns the written path.
func (w Writer) Write(folder, name, content string) (string, error) {
    dir := filepath.Join(w.BaseDir, folder)
    if err := os.MkdirAll(dir, 0o755); err != nil { return "", err }
    p := filepath.Join(dir, name)
    if err := os.WriteFile(p, []byte(content), 0o644); err != nil { return "", err }
    log.Info().Str("file", p).Int("bytes", len(content)).Str("blake2b", Digest(content)).Msg("document written")
    return p, nil
}

// WriteMarkdown stores a markdown document plus its HTML rendering when enabled.
func (w Writer) WriteMarkdown(folder, name, content string) ([]string, error) {
    p, err := w.Write(folder, name, content)
    if err != nil { return nil, err }
    files := []string{p}
    if !w.RenderHTML { return files, nil }

    body, err := assembler.RenderHTML(content)
    if err != nil { return files, fmt.Errorf("render %s: %w", name, err) }
    hp, err := w.Write(folder, strings.TrimSuffix(name, filepath.Ext(name))+".html", body)
    if err != nil { return files, err }
    return append(files, hp), nil
}

// Digest is a short BLAKE2b-256 fingerprint used to compare runs in logs.
func Digest(content string) string {
    sum := blake2b.Sum256([]byte(content))
    return hex.EncodeToString(sum[:8])
}
