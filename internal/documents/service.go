package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"dms-backend/internal/extract"
	"dms-backend/internal/search"
	"dms-backend/internal/shared/metrics"
	"dms-backend/internal/shared/storage/object"
	"dms-backend/internal/shared/telemetry"
	"dms-backend/internal/shared/util"
)

const (
	blobKeyPrefix     = "documents"
	defaultSearchSize = 25
)

// Indexer is what the pipeline needs from the search index.
type Indexer interface {
	IndexDocument(id string, doc search.Doc) error
	Search(query string, limit int) ([]search.Hit, error)
}

// TextExtractor produces best-effort plain text; it never fails.
type TextExtractor interface {
	Text(ctx context.Context, data []byte, mediaType string) string
}

// IngestResult is the outcome of a successful ingestion. Degraded flags mark
// absorbed failures: the document is durably stored either way.
type IngestResult struct {
	Document Document
	// TextDegraded is set when a supported media type yielded no text.
	TextDegraded bool
	// IndexDegraded is set when the index write failed; the document is
	// retrievable by id and listing but absent from search results.
	IndexDegraded bool
}

// Service orchestrates the ingestion pipeline and the read paths.
type Service struct {
	Blobs     object.BlobStore
	Repo      Repo
	Index     Indexer
	Extractor TextExtractor
	// Timeout bounds each backend call; zero means unbounded.
	Timeout time.Duration
}

// Ingest runs the pipeline: blob write, text extraction, metadata insert,
// index write, strictly in that order. The blob and metadata writes are hard
// failure points; extraction and indexing are absorbed into degraded flags.
func (s *Service) Ingest(ctx context.Context, originalName, mediaType string, data []byte) (IngestResult, error) {
	start := time.Now()
	metrics.IncIngestStarted()

	result, err := s.ingest(ctx, originalName, mediaType, data)
	metrics.ObserveIngestDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncIngestFailed()
		return IngestResult{}, err
	}
	metrics.IncIngestSucceeded()
	return result, nil
}

func (s *Service) ingest(ctx context.Context, originalName, mediaType string, data []byte) (IngestResult, error) {
	if len(data) == 0 {
		return IngestResult{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	sanitized, err := util.SanitizeFileName(originalName)
	if err != nil {
		return IngestResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	storedName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitized)
	blobKey := path.Join(blobKeyPrefix, storedName)

	putCtx, cancel := s.callCtx(ctx)
	_, err = s.Blobs.Put(putCtx, blobKey, mediaType, bytes.NewReader(data))
	cancel()
	if err != nil {
		// Nothing durable exists yet; the whole operation fails.
		return IngestResult{}, fmt.Errorf("store blob: %w", err)
	}

	text := s.Extractor.Text(ctx, data, mediaType)

	doc := Document{
		StoredName:    storedName,
		OriginalName:  originalName,
		BlobKey:       blobKey,
		ExtractedText: text,
		SizeBytes:     int64(len(data)),
		MediaType:     mediaType,
	}

	insertCtx, cancel := s.callCtx(ctx)
	created, err := s.Repo.Insert(insertCtx, doc)
	cancel()
	if err != nil {
		// The blob is now orphaned; no rollback is attempted.
		telemetry.Warn("ingest.orphan_blob", map[string]any{
			"blob_key":      blobKey,
			"original_name": originalName,
			"error":         err.Error(),
		})
		return IngestResult{}, fmt.Errorf("insert metadata: %w", err)
	}

	result := IngestResult{
		Document:     created,
		TextDegraded: text == "" && extract.Classify(mediaType) != extract.VariantUnsupported,
	}

	if err := s.Index.IndexDocument(created.ID, search.Doc{
		StoredName:    created.StoredName,
		OriginalName:  created.OriginalName,
		ExtractedText: created.ExtractedText,
		MediaType:     created.MediaType,
		SizeBytes:     created.SizeBytes,
		CreatedAt:     created.CreatedAt,
	}); err != nil {
		// Search is a derived view; the document stays durable and the
		// operation still succeeds.
		telemetry.Warn("ingest.index_degraded", map[string]any{
			"document_id": created.ID,
			"blob_key":    blobKey,
			"error":       err.Error(),
		})
		metrics.IncIngestIndexDegraded()
		result.IndexDegraded = true
	}

	return result, nil
}

// List returns document summaries ordered newest-first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	listCtx, cancel := s.callCtx(ctx)
	defer cancel()
	return s.Repo.ListAll(listCtx)
}

// Download returns the document metadata and a reader over the raw blob bytes.
// The caller owns closing the reader.
func (s *Service) Download(ctx context.Context, id string) (Document, io.ReadCloser, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, nil, fmt.Errorf("%w: document id required", ErrInvalidInput)
	}

	getCtx, cancel := s.callCtx(ctx)
	doc, err := s.Repo.GetByID(getCtx, id)
	cancel()
	if err != nil {
		return Document{}, nil, err
	}

	// The body streams after this call returns, so it is bound to the
	// request context rather than the per-call timeout.
	body, err := s.Blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			// Metadata exists but the blob is gone; from the client's
			// view the document does not exist.
			telemetry.Warn("download.missing_blob", map[string]any{
				"document_id": doc.ID,
				"blob_key":    doc.BlobKey,
			})
			return Document{}, nil, ErrNotFound
		}
		return Document{}, nil, fmt.Errorf("fetch blob key=%s: %w", doc.BlobKey, err)
	}
	return doc, body, nil
}

// SearchDocs runs a relevance-ranked query. Empty queries are rejected here
// and never reach the index.
func (s *Service) SearchDocs(ctx context.Context, query string) ([]search.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query required", ErrInvalidInput)
	}
	return s.Index.Search(query, defaultSearchSize)
}

func (s *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.Timeout)
}

