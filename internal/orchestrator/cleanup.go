package orchestrator

import (
    "os"
    "path/filepath"
    "strings"
    "time"
)

// CleanupTemps removes downloaded source copies (pdfdl-*.pdf, s3pdf-*.pdf)
// left in the temp dir by interrupted runs and older than maxAge.
func CleanupTemps(maxAge time.Duration) int {
    dir := os.TempDir()
    now := time.Now()
    removed := 0
    entries, err := os.ReadDir(dir)
    if err != nil { return 0 }
    for _, e := range entries {
        name := e.Name()
        if e.IsDir() || !(strings.HasPrefix(name, "pdfdl-") || strings.HasPrefix(name, "s3pdf-")) {
            continue
        }
        info, err := e.Info()
        if err != nil || now.Sub(info.ModTime()) < maxAge { continue }
        if os.Remove(filepath.Join(dir, name)) == nil { removed++ }
    }
    return removed
}
