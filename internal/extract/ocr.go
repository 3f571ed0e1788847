package extract

import "context"

// OCREngine recognizes text in an image payload. The production engine lives
// in the tesseract subpackage.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}
