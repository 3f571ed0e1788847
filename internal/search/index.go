package search

import (
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Doc is the searchable projection of a document. It mirrors the metadata row
// as of the last successful index write and may lag behind it.
type Doc struct {
	StoredName    string
	OriginalName  string
	ExtractedText string
	MediaType     string
	SizeBytes     int64
	CreatedAt     time.Time
}

// Hit is one ranked search result. It carries enough stored fields to render
// a summary without a metadata store round trip.
type Hit struct {
	ID            string
	Score         float64
	StoredName    string
	OriginalName  string
	ExtractedText string
	MediaType     string
	SizeBytes     int64
	CreatedAt     time.Time
}

// Index wraps a bleve full-text index over documents.
type Index struct {
	index bleve.Index
}

// Open opens the index at path, creating it with the document mapping if absent.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx}, nil
}

// OpenMemory creates an in-memory index. Used by tests and dev mode.
func OpenMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create memory index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	keywordFieldMapping.Index = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("StoredName", textFieldMapping)
	docMapping.AddFieldMappingsAt("OriginalName", textFieldMapping)
	docMapping.AddFieldMappingsAt("ExtractedText", textFieldMapping)
	docMapping.AddFieldMappingsAt("MediaType", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("SizeBytes", bleve.NewNumericFieldMapping())
	docMapping.AddFieldMappingsAt("CreatedAt", bleve.NewDateTimeFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// IndexDocument adds or updates a document in the index.
func (i *Index) IndexDocument(id string, doc Doc) error {
	if err := i.index.Index(id, doc); err != nil {
		return fmt.Errorf("index document %s: %w", id, err)
	}
	return nil
}

// Delete removes a document from the index.
func (i *Index) Delete(id string) error {
	return i.index.Delete(id)
}

// Search runs a relevance-ranked query over filename, original name, and
// extracted text, the same field set the ingestion pipeline writes.
func (i *Index) Search(queryStr string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 25
	}

	perField := make([]query.Query, 0, 3)
	for _, field := range []string{"StoredName", "OriginalName", "ExtractedText"} {
		mq := bleve.NewMatchQuery(queryStr)
		mq.SetField(field)
		perField = append(perField, mq)
	}
	disjunction := bleve.NewDisjunctionQuery(perField...)

	req := bleve.NewSearchRequestOptions(disjunction, limit, 0, false)
	req.Fields = []string{"StoredName", "OriginalName", "ExtractedText", "MediaType", "SizeBytes", "CreatedAt"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, h := range results.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["StoredName"].(string); ok {
			hit.StoredName = v
		}
		if v, ok := h.Fields["OriginalName"].(string); ok {
			hit.OriginalName = v
		}
		if v, ok := h.Fields["ExtractedText"].(string); ok {
			hit.ExtractedText = v
		}
		if v, ok := h.Fields["MediaType"].(string); ok {
			hit.MediaType = v
		}
		if v, ok := h.Fields["SizeBytes"].(float64); ok {
			hit.SizeBytes = int64(v)
		}
		if v, ok := h.Fields["CreatedAt"].(string); ok {
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				hit.CreatedAt = ts
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// DocCount reports the number of indexed documents. Doubles as a liveness probe.
func (i *Index) DocCount() (uint64, error) {
	return i.index.DocCount()
}

// Close closes the index.
func (i *Index) Close() error {
	return i.index.Close()
}
