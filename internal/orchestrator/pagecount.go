package orchestrator

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "os"
    "strings"

    "github.com/pdfcpu/pdfcpu/pkg/api"

    "github.com/local/studyguide/internal/config"
    "github.com/local/studyguide/internal/storage"
)

// ensureLocalPDF returns a local file path for a PDF referenced by ref and an optional temp path to remove.
// Supports:
// - file://path or absolute/relative filesystem paths
// - http(s):// URLs (downloads to temp)
// - s3://bucket/key (downloads to temp via AWS SDK v2)
func ensureLocalPDF(ctx context.Context, ref string, s3c config.S3Config) (string, string, error) {
    if i := strings.Index(ref, "#"); i >= 0 { ref = ref[:i] }
    switch {
    case strings.HasPrefix(ref, "file://"):
        return strings.TrimPrefix(ref, "file://"), "", nil
    case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
        p, err := downloadHTTPToTemp(ctx, ref)
        return p, p, err
    case strings.HasPrefix(ref, "s3://"):
        cli, err := storage.NewS3Client(ctx, s3c)
        if err != nil { return "", "", err }
        p, err := cli.DownloadToTemp(ctx, ref)
        return p, p, err
    default:
        return ref, "", nil
    }
}

func downloadHTTPToTemp(ctx context.Context, url string) (string, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
    if err != nil { return "", err }
    resp, err := http.DefaultClient.Do(req)
    if err != nil { return "", err }
    defer resp.Body.Close()
    if resp.StatusCode != http.StatusOK { return "", fmt.Errorf("download %s: http %d", url, resp.StatusCode) }
    f, err := os.CreateTemp("", "pdfdl-*.pdf")
    if err != nil { return "", err }
    defer f.Close()
    if _, err := io.Copy(f, resp.Body); err != nil {
        _ = os.Remove(f.Name())
        return "", err
    }
    return f.Name(), nil
}

// checkPageRanges fails when a chapter references pages past the end of the document.
func checkPageRanges(localPath string, cf config.ChapterFile) (int, error) {
    n, err := api.PageCountFile(localPath)
    if err != nil {
        return 0, fmt.Errorf("pdf page count failed: %w", err)
    }
    if max := cf.MaxPage(); max > n {
        return n, &config.Error{Key: "chapters", Reason: fmt.Sprintf("page %d is beyond the end of %s (%d pages)", max, cf.PDFPath, n)}
    }
    return n, nil
}
