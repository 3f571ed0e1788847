package documents

import (
	"time"

	"dms-backend/internal/search"
)

// DocumentResponse is the outward-facing representation of a stored document.
type DocumentResponse struct {
	ID            string    `json:"id"`
	OriginalName  string    `json:"originalName"`
	StoredName    string    `json:"storedName"`
	BlobKey       string    `json:"blobKey"`
	ExtractedText string    `json:"extractedText"`
	SizeBytes     int64     `json:"sizeBytes"`
	MediaType     string    `json:"mediaType"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UploadResponse wraps the stored document with the degraded-operation flags
// so clients can surface partial ingestion outcomes.
type UploadResponse struct {
	DocumentResponse
	TextDegraded  bool `json:"textDegraded"`
	IndexDegraded bool `json:"indexDegraded"`
}

// DocumentSummary is the listing shape; it never carries extracted text.
type DocumentSummary struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"storedName"`
	SizeBytes    int64     `json:"sizeBytes"`
	MediaType    string    `json:"mediaType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SearchHitResponse is one relevance-ranked search result.
type SearchHitResponse struct {
	ID           string    `json:"id"`
	Score        float64   `json:"score"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"storedName"`
	MediaType    string    `json:"mediaType"`
	SizeBytes    int64     `json:"sizeBytes"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		OriginalName:  doc.OriginalName,
		StoredName:    doc.StoredName,
		BlobKey:       doc.BlobKey,
		ExtractedText: doc.ExtractedText,
		SizeBytes:     doc.SizeBytes,
		MediaType:     doc.MediaType,
		CreatedAt:     doc.CreatedAt,
	}
}

func toUploadResponse(res IngestResult) UploadResponse {
	return UploadResponse{
		DocumentResponse: toResponse(res.Document),
		TextDegraded:     res.TextDegraded,
		IndexDegraded:    res.IndexDegraded,
	}
}

func toSummary(doc Document) DocumentSummary {
	return DocumentSummary{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		StoredName:   doc.StoredName,
		SizeBytes:    doc.SizeBytes,
		MediaType:    doc.MediaType,
		CreatedAt:    doc.CreatedAt,
	}
}

func toSearchHit(hit search.Hit) SearchHitResponse {
	return SearchHitResponse{
		ID:           hit.ID,
		Score:        hit.Score,
		OriginalName: hit.OriginalName,
		StoredName:   hit.StoredName,
		MediaType:    hit.MediaType,
		SizeBytes:    hit.SizeBytes,
		CreatedAt:    hit.CreatedAt,
	}
}
