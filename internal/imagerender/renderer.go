package imagerender

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// ColorMode defines the color mode for rendering
type ColorMode string

const (
	ColorRGB  ColorMode = "rgb"
	ColorGray ColorMode = "gray"
)

// DefaultDPI is a resolution Tesseract handles well for printed Telugu.
const DefaultDPI = 300

// Options controls page rasterization.
type Options struct {
	DPI   int
	Color ColorMode
}

// PageImageName is the file name the OCR workflow looks for first.
func PageImageName(page int) string { return fmt.Sprintf("page-%03d.png", page) }

// RasterizePages renders the given 1-based pages of pdfPath into outDir as
// page-NNN.png files and returns the written paths in page order.
func RasterizePages(pdfPath, outDir string, pages []int, opts Options) ([]string, error) {
	if opts.DPI <= 0 { opts.DPI = DefaultDPI }
	if opts.Color == "" { opts.Color = ColorGray }

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(pages))
	for _, page := range pages {
		if page < 1 || page > doc.NumPage() {
			return written, fmt.Errorf("page %d out of range (document has %d)", page, doc.NumPage())
		}
		img, err := renderPage(doc, page, opts)
		if err != nil {
			return written, err
		}
		p := filepath.Join(outDir, PageImageName(page))
		if err := writePNG(p, img); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	log.Info().Str("pdf", filepath.Base(pdfPath)).Int("pages", len(written)).Int("dpi", opts.DPI).Str("dir", outDir).Msg("rasterized pages")
	return written, nil
}

func renderPage(doc *fitz.Document, page int, opts Options) (image.Image, error) {
	// go-fitz uses 0-based indexing
	img, err := doc.ImageDPI(page-1, float64(opts.DPI))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}
	bounds := img.Bounds()

	var finalImg image.Image = img
	if opts.Color == ColorGray {
		grayImg := image.NewGray(bounds)
		draw.Draw(grayImg, bounds, img, bounds.Min, draw.Src)
		finalImg = grayImg
	}
	log.Debug().
		Int("page", page).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Str("color", string(opts.Color)).
		Msg("rendered page")
	return finalImg, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}
