// Package extract produces the text of single textbook pages, either from
// pre-extracted files or by running OCR on page images.
package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/local/studyguide/internal/filetype"
	"github.com/local/studyguide/internal/locator"
	mpkg "github.com/local/studyguide/internal/metrics"
	"github.com/local/studyguide/internal/ocr"
)

// MissingImage stands in for a page whose image could not be found, leaving a visible gap.
const MissingImage = "\n\n\n\n"

// Source yields the text of one page. Lookup misses are not errors: a missing
// page yields empty or placeholder text and is logged.
type Source interface {
	Name() string
	PageText(ctx context.Context, page int) string
}

// TextSource reads page files located by number in a flat input directory.
// Files that sniff as images go through the OCR engine when one is set;
// single-page PDFs have their text layer read with MuPDF.
type TextSource struct {
	loc      *locator.Locator
	detector *filetype.Detector
	engine   ocr.Engine
	dirGone  bool
}

func NewTextSource(loc *locator.Locator, engine ocr.Engine) *TextSource {
	return &TextSource{loc: loc, detector: filetype.New(), engine: engine}
}

func (s *TextSource) Name() string { return "text" }

func (s *TextSource) PageText(ctx context.Context, page int) string {
	path, ok, err := s.loc.Locate(page)
	if err != nil {
		if !s.dirGone {
			log.Error().Err(err).Str("dir", s.loc.Dir()).Msg("input folder does not exist")
			s.dirGone = true
		}
		mpkg.IncPage(s.Name(), false)
		return ""
	}
	if !ok {
		log.Warn().Int("page", page).Msg("no file found for page")
		mpkg.IncPage(s.Name(), false)
		return ""
	}

	text, err := s.read(ctx, path)
	if err != nil {
		log.Warn().Err(err).Int("page", page).Str("file", filepath.Base(path)).Msg("error reading page file")
		mpkg.IncPage(s.Name(), false)
		return ""
	}
	log.Debug().Int("page", page).Str("file", filepath.Base(path)).Msg("found page")
	mpkg.IncPage(s.Name(), true)
	return text
}

func (s *TextSource) read(ctx context.Context, path string) (string, error) {
	info, err := s.detector.Detect(path)
	if err != nil {
		return "", err
	}
	if info.NeedsOCR() {
		if s.engine == nil {
			return "", errors.New("page file is an image and no OCR engine is configured")
		}
		return s.engine.Recognize(ctx, path)
	}
	if info.Kind == filetype.KindPDF {
		return PDFText(path, 1)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		log.Warn().Str("file", filepath.Base(path)).Msg("page file is not valid UTF-8; replacing bad bytes")
		return strings.ToValidUTF8(string(b), "�"), nil
	}
	return string(b), nil
}

// OCRSource recognizes page images named page-NNN.png or page-N.png.
type OCRSource struct {
	loc    *locator.Locator
	engine ocr.Engine
}

func NewOCRSource(loc *locator.Locator, engine ocr.Engine) *OCRSource {
	return &OCRSource{loc: loc, engine: engine}
}

func (s *OCRSource) Name() string { return "ocr" }

func (s *OCRSource) PageText(ctx context.Context, page int) string {
	path, ok := s.loc.LocateImage(page)
	if !ok {
		log.Warn().Int("page", page).Msg("no image found for page")
		mpkg.IncPage(s.Name(), false)
		return MissingImage
	}
	text, err := s.engine.Recognize(ctx, path)
	if err != nil {
		log.Error().Err(err).Int("page", page).Str("image", path).Msg("OCR error")
		mpkg.IncPage(s.Name(), false)
		return ""
	}
	mpkg.IncPage(s.Name(), true)
	return text
}
