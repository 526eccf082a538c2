package extract

import (
	"fmt"

	fitz "github.com/gen2brain/go-fitz"
)

// PDFText uses go-fitz (MuPDF) to extract text for a given page (1-based page index).
func PDFText(path string, page int) (string, error) {
	doc, err := fitz.New(path)
	if err != nil { return "", fmt.Errorf("open pdf: %w", err) }
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return "", fmt.Errorf("page %d out of range (document has %d)", page, doc.NumPage())
	}
	text, err := doc.Text(page - 1)
	if err != nil { return "", fmt.Errorf("text page %d: %w", page, err) }
	return text, nil
}
