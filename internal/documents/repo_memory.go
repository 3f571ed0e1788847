package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo for dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

// Insert stores a new document, assigning id and timestamps.
func (r *MemoryRepo) Insert(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	doc.ID = uuid.NewString()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.MediaType == "" {
		doc.MediaType = "application/octet-stream"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return doc, nil
}

// ListAll returns documents newest-first with ExtractedText omitted.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	docs := make([]Document, 0, len(r.data))
	for _, doc := range r.data {
		doc.ExtractedText = ""
		docs = append(docs, doc)
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// GetByID returns the full document or ErrNotFound.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

var _ Repo = (*MemoryRepo)(nil)
