// Package ocr wraps the Tesseract engine used for scanned textbook pages.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in a page image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Tesseract is an Engine backed by gosseract with a fixed language model.
type Tesseract struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseract creates an engine for the given traineddata names (e.g. "tel").
func NewTesseract(languages ...string) *Tesseract {
	return &Tesseract{languages: languages, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Languages returns the configured language models.
func (t *Tesseract) Languages() []string { return t.languages }

// Recognize runs OCR on one image file.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := t.clientFactory()
	defer c.Close()

	if len(t.languages) > 0 {
		if err := c.SetLanguage(t.languages...); err != nil {
			return "", fmt.Errorf("set languages %s: %w", strings.Join(t.languages, "+"), err)
		}
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize %s: %w", imagePath, err)
	}
	return text, nil
}

// Version reports the linked tesseract version.
func Version() string {
	c := gosseract.NewClient()
	defer c.Close()
	return c.Version()
}

// AvailableLanguages lists the traineddata models found in the tessdata directory.
func AvailableLanguages() ([]string, error) {
	return gosseract.GetAvailableLanguages()
}
