package documents

import "time"

// Document is the unit of ingestion: one uploaded file with its stored blob,
// extracted text, and descriptive metadata.
type Document struct {
	ID            string
	StoredName    string
	OriginalName  string
	BlobKey       string
	ExtractedText string
	SizeBytes     int64
	MediaType     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
