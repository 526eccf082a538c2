package filetype

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// Kind is the coarse routing class of an input file.
type Kind int

const (
	KindUnsupported Kind = iota
	KindText
	KindImage
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	default:
		return "unsupported"
	}
}

// Info contains detected file type information
type Info struct {
	MIMEType    string
	Extension   string
	Kind        Kind
	Description string
}

// NeedsOCR reports whether text must be recognized rather than read.
func (i Info) NeedsOCR() bool { return i.Kind == KindImage }

// Detector handles file type detection using magic bytes
type Detector struct{}

// New creates a new file type detector
func New() *Detector {
	return &Detector{}
}

// Detect detects the actual file type using magic bytes, not filename
func (d *Detector) Detect(filePath string) (Info, error) {
	mtype, err := mimetype.DetectFile(filePath)
	if err != nil {
		return Info{}, fmt.Errorf("failed to detect file type: %w", err)
	}

	info := Info{MIMEType: mtype.String(), Extension: mtype.Extension()}
	d.classify(&info)

	log.Debug().Str("mime", info.MIMEType).Str("kind", info.Kind.String()).Str("file", filePath).Msg("detected file type")
	return info, nil
}

// classify determines how a page source is processed
func (d *Detector) classify(info *Info) {
	base := info.MIMEType
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	switch {
	// Page text files (OCR exports are usually text/plain; charset=utf-8)
	case strings.HasPrefix(base, "text/"),
		base == "application/json",
		base == "application/xml":
		info.Kind = KindText
		info.Description = "Text file"

	case strings.HasPrefix(base, "image/"):
		info.Kind = KindImage
		info.Description = "Image file"

	case base == "application/pdf":
		info.Kind = KindPDF
		info.Description = "PDF document"

	default:
		info.Kind = KindUnsupported
		info.Description = fmt.Sprintf("Unsupported file type: %s", info.MIMEType)
	}
}

// RequirePDF returns an error unless filePath sniffs as a PDF document.
func (d *Detector) RequirePDF(filePath string) (Info, error) {
	info, err := d.Detect(filePath)
	if err != nil {
		return info, err
	}
	if info.Kind != KindPDF {
		return info, fmt.Errorf("%s is %s, not a PDF document", filePath, info.MIMEType)
	}
	return info, nil
}
