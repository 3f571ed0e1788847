package extract

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

// extractPDF pulls the embedded text layer. A scanned PDF with no text layer
// yields an empty string; it is not re-routed to OCR.
func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
