// Package pdftest probes whether textbook pages carry a usable text layer,
// which decides between reading the PDF text and rasterizing pages for OCR.
package pdftest

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

// PageProbe captures the result of probing a single PDF page.
type PageProbe struct {
	Page      int    `json:"page"`
	CharCount int    `json:"char_count"`
	Err       string `json:"err,omitempty"`
}

// Diagnostics provides detailed information about the text-extractability check.
type Diagnostics struct {
	FilePath           string      `json:"file_path"`
	TotalPages         int         `json:"total_pages"`
	SampledPages       []int       `json:"sampled_pages"`
	TotalCharsInSample int         `json:"total_chars_in_sample"`
	Threshold          int         `json:"threshold"`
	Probes             []PageProbe `json:"probes"`
	HasExtractableText bool        `json:"has_extractable_text"`
	DurationMs         int64       `json:"duration_ms"`
}

// DefaultThreshold is used when a non-positive threshold is passed in.
const DefaultThreshold = 300

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Doc abstracts a PDF document for text extraction. Pages are 0-based here.
type Doc interface {
	NumPage() int
	Text(i int) (string, error)
	Close() error
}

// Opener abstracts opening a PDF path into a Doc.
type Opener interface {
	Open(path string) (Doc, error)
}

// defaultOpener is provided in doc_open_fitz.go using go-fitz.
var defaultOpener Opener

// HasExtractableText samples the given 1-based pages (first, middle and last
// page when pages is empty) and reports whether together they hold at least
// threshold non-space characters.
func HasExtractableText(pdfPath string, pages []int, threshold int) (bool, *Diagnostics, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if defaultOpener == nil {
		return false, nil, errors.New("no PDF opener configured")
	}

	start := time.Now()
	d, err := defaultOpener.Open(pdfPath)
	if err != nil {
		return false, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer d.Close()

	total := d.NumPage()
	diag := &Diagnostics{FilePath: pdfPath, TotalPages: total, Threshold: threshold}
	if len(pages) == 0 {
		pages = samplePages(total)
	}
	diag.SampledPages = clampPages(pages, total)

	for _, p := range diag.SampledPages {
		probe := PageProbe{Page: p}
		text, terr := d.Text(p - 1)
		if terr != nil {
			probe.Err = terr.Error()
		} else {
			probe.CharCount = len([]rune(whitespaceRegex.ReplaceAllString(text, "")))
			diag.TotalCharsInSample += probe.CharCount
		}
		diag.Probes = append(diag.Probes, probe)
		if diag.TotalCharsInSample >= threshold {
			break
		}
	}

	diag.HasExtractableText = diag.TotalCharsInSample >= threshold
	diag.DurationMs = time.Since(start).Milliseconds()
	return diag.HasExtractableText, diag, nil
}

func samplePages(total int) []int {
	if total <= 0 {
		return nil
	}
	return []int{1, (total + 1) / 2, total}
}

// clampPages drops out-of-range pages and returns the rest unique and sorted.
func clampPages(pages []int, total int) []int {
	m := make(map[int]struct{})
	for _, p := range pages {
		if p < 1 || p > total {
			continue
		}
		m[p] = struct{}{}
	}
	out := make([]int, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
