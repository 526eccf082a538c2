// Package locator maps printed page numbers to files in a flat input folder.
package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"
)

// Locator searches one directory for page files.
type Locator struct {
	dir string
}

// New creates a locator rooted at dir.
func New(dir string) *Locator { return &Locator{dir: dir} }

// Dir returns the searched directory.
func (l *Locator) Dir() string { return l.dir }

// PagePattern matches page as a standalone numeric token, allowing zero padding.
// 67 matches "67.txt" and "page-067.png" but not "167.txt" or "670.txt".
func PagePattern(page int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(^|[^0-9])0*%d([^0-9]|$)`, page))
}

// Match returns the first name matching page, in the given order.
func Match(names []string, page int) (string, bool) {
	re := PagePattern(page)
	for _, n := range names {
		if re.MatchString(n) {
			return n, true
		}
	}
	return "", false
}

// Locate returns the path of the first file in directory order that carries page.
// A missing match is not an error; a missing or unreadable directory is.
func (l *Locator) Locate(page int) (string, bool, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return "", false, fmt.Errorf("read input dir %s: %w", l.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	name, ok := Match(names, page)
	if !ok {
		return "", false, nil
	}
	return filepath.Join(l.dir, name), true, nil
}

// ImageCandidates lists the scanner export names tried for page, zero-padded first.
func ImageCandidates(page int) []string {
	return []string{fmt.Sprintf("page-%03d.png", page), fmt.Sprintf("page-%d.png", page)}
}

// LocateImage returns the first existing image candidate for page.
func (l *Locator) LocateImage(page int) (string, bool) {
	for _, c := range ImageCandidates(page) {
		p := filepath.Join(l.dir, c)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}

var scannedImage = regexp.MustCompile(`^page-\d+\.png$`)

// ImportImages moves scanner exports (page-NNN.png) from src into dst and returns the moved names.
func ImportImages(src, dst string) ([]string, error) {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("read image source dir %s: %w", src, err)
	}
	var moved []string
	for _, e := range entries {
		if e.IsDir() || !scannedImage.MatchString(e.Name()) {
			continue
		}
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dst, e.Name())
		if err := os.Rename(from, to); err != nil {
			return moved, fmt.Errorf("move %s: %w", e.Name(), err)
		}
		log.Info().Str("file", e.Name()).Str("dest", dst).Msg("moved scanned image")
		moved = append(moved, e.Name())
	}
	return moved, nil
}
