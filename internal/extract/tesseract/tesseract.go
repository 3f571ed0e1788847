// Package tesseract provides the gosseract-backed OCR engine. It is split
// from the extract package so that the cgo dependency is only linked into
// binaries that actually run OCR.
package tesseract

import (
	"context"

	"github.com/otiai10/gosseract/v2"
)

// Engine implements extract.OCREngine via gosseract. One recognition
// language is configured at construction time.
type Engine struct {
	language string
}

// NewEngine constructs an Engine for the given language code (e.g. "eng").
func NewEngine(language string) *Engine {
	if language == "" {
		language = "eng"
	}
	return &Engine{language: language}
}

// Recognize runs OCR over the image bytes. gosseract clients are not safe for
// concurrent use, so one is created per call.
func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}
	return client.Text()
}
