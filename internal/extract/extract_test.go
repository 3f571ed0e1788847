package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mediaType string
		want      Variant
	}{
		{name: "png", mediaType: "image/png", want: VariantImage},
		{name: "jpeg", mediaType: "image/jpeg", want: VariantImage},
		{name: "pdf", mediaType: "application/pdf", want: VariantPDF},
		{name: "plain text", mediaType: "text/plain", want: VariantText},
		{name: "markdown", mediaType: "text/markdown", want: VariantText},
		{name: "docx", mediaType: mimeDOCX, want: VariantOffice},
		{name: "charset parameter stripped", mediaType: "text/plain; charset=utf-8", want: VariantText},
		{name: "case insensitive", mediaType: "Application/PDF", want: VariantPDF},
		{name: "xlsx unsupported", mediaType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", want: VariantUnsupported},
		{name: "zip unsupported", mediaType: "application/zip", want: VariantUnsupported},
		{name: "octet-stream unsupported", mediaType: "application/octet-stream", want: VariantUnsupported},
		{name: "empty unsupported", mediaType: "", want: VariantUnsupported},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.mediaType); got != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.mediaType, got, tt.want)
			}
		})
	}
}

func TestTextPlainIsVerbatim(t *testing.T) {
	d := NewDispatcher(nil)

	payload := []byte("line one\nline two with ünïcode")
	got := d.Text(context.Background(), payload, "text/plain")
	if got != string(payload) {
		t.Fatalf("expected verbatim text, got %q", got)
	}
}

func TestTextUnsupportedIsEmpty(t *testing.T) {
	d := NewDispatcher(nil)

	got := d.Text(context.Background(), []byte{0xde, 0xad, 0xbe, 0xef}, "application/octet-stream")
	if got != "" {
		t.Fatalf("expected empty text for unsupported type, got %q", got)
	}
}

func TestTextImageWithoutEngineDegrades(t *testing.T) {
	d := NewDispatcher(nil)

	got := d.Text(context.Background(), []byte("not really an image"), "image/png")
	if got != "" {
		t.Fatalf("expected empty text without ocr engine, got %q", got)
	}
}

type fakeOCR struct {
	text string
	err  error
}

func (f fakeOCR) Recognize(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

func TestTextImageUsesEngine(t *testing.T) {
	d := NewDispatcher(fakeOCR{text: "recognized words"})

	got := d.Text(context.Background(), []byte("image bytes"), "image/jpeg")
	if got != "recognized words" {
		t.Fatalf("expected ocr output, got %q", got)
	}
}

func TestTextImageEngineFailureDegrades(t *testing.T) {
	d := NewDispatcher(fakeOCR{err: errors.New("tesseract exploded")})

	got := d.Text(context.Background(), []byte("image bytes"), "image/jpeg")
	if got != "" {
		t.Fatalf("expected empty text on ocr failure, got %q", got)
	}
}

func TestTextMalformedPDFDegrades(t *testing.T) {
	d := NewDispatcher(nil)

	got := d.Text(context.Background(), []byte("definitely not a pdf"), "application/pdf")
	if got != "" {
		t.Fatalf("expected empty text for malformed pdf, got %q", got)
	}
}

func TestTextDocxExtractsParagraphs(t *testing.T) {
	d := NewDispatcher(nil)

	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got := d.Text(context.Background(), buildDocx(t, docXML), mimeDOCX)
	if !bytes.Contains([]byte(got), []byte("First paragraph.")) {
		t.Fatalf("expected first paragraph in %q", got)
	}
	if !bytes.Contains([]byte(got), []byte("Second paragraph.")) {
		t.Fatalf("expected second paragraph in %q", got)
	}
}

func TestTextDocxWithoutDocumentXMLDegrades(t *testing.T) {
	d := NewDispatcher(nil)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	got := d.Text(context.Background(), buf.Bytes(), mimeDOCX)
	if got != "" {
		t.Fatalf("expected empty text for zip without document.xml, got %q", got)
	}
}

func TestTextDocxMalformedXMLDoesNotLeakMarkup(t *testing.T) {
	d := NewDispatcher(nil)

	// Valid paragraph followed by an unclosed tag. The text before the
	// decode error is kept, the markup after it never appears.
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Readable part.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Broken part.</broken>
  </w:body>
</w:document>`

	got := d.Text(context.Background(), buildDocx(t, docXML), mimeDOCX)
	if !strings.Contains(got, "Readable part.") {
		t.Fatalf("expected text before the decode error in %q", got)
	}
	if strings.Contains(got, "<") {
		t.Fatalf("raw markup leaked into extracted text: %q", got)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx zip: %v", err)
	}
	return buf.Bytes()
}
