package extract

import (
	"context"
	"errors"
	"strings"

	"dms-backend/internal/shared/telemetry"
)

const mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Variant identifies one text-extraction strategy. The set is closed: adding a
// variant means extending Classify and the dispatch switch together.
type Variant int

const (
	VariantUnsupported Variant = iota
	VariantImage
	VariantPDF
	VariantText
	VariantOffice
)

func (v Variant) String() string {
	switch v {
	case VariantImage:
		return "image"
	case VariantPDF:
		return "pdf"
	case VariantText:
		return "text"
	case VariantOffice:
		return "office"
	default:
		return "unsupported"
	}
}

// Classify selects the extraction variant for a declared media type. It is a
// pure function; parameters and charset suffixes are ignored. The declared
// type is trusted as-is and never verified against the actual bytes.
func Classify(mediaType string) Variant {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	switch {
	case strings.HasPrefix(clean, "image/"):
		return VariantImage
	case clean == "application/pdf":
		return VariantPDF
	case strings.HasPrefix(clean, "text/"):
		return VariantText
	case clean == mimeDOCX:
		return VariantOffice
	default:
		return VariantUnsupported
	}
}

// Dispatcher routes payloads to extraction variants. Extraction is non-fatal:
// Text is total over (data, mediaType) and converts every internal failure,
// panic included, into an empty string.
type Dispatcher struct {
	OCR OCREngine
}

// NewDispatcher constructs a Dispatcher. ocr may be nil, in which case the
// image variant degrades to empty text.
func NewDispatcher(ocr OCREngine) *Dispatcher {
	return &Dispatcher{OCR: ocr}
}

// Text extracts best-effort plain text from the payload. It never returns an
// error; failures are logged and downgraded to "".
func (d *Dispatcher) Text(ctx context.Context, data []byte, mediaType string) (text string) {
	variant := Classify(mediaType)

	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Warn("extract.panic", map[string]any{
				"variant":    variant.String(),
				"media_type": mediaType,
				"error":      rec,
			})
			text = ""
		}
	}()

	out, err := d.run(ctx, variant, data)
	if err != nil {
		telemetry.Warn("extract.failed", map[string]any{
			"variant":    variant.String(),
			"media_type": mediaType,
			"size_bytes": len(data),
			"error":      err.Error(),
		})
		return ""
	}
	return out
}

func (d *Dispatcher) run(ctx context.Context, variant Variant, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch variant {
	case VariantImage:
		if d.OCR == nil {
			return "", errors.New("ocr engine not configured")
		}
		return d.OCR.Recognize(ctx, data)
	case VariantPDF:
		return extractPDF(data)
	case VariantText:
		return string(data), nil
	case VariantOffice:
		return extractDOCX(data)
	default:
		return "", nil
	}
}
