package documents

import "context"

// Repo defines persistence operations for document metadata.
type Repo interface {
	// Insert stores a new document and returns it with the assigned id and
	// timestamps. Callers must not pre-assign them.
	Insert(ctx context.Context, doc Document) (Document, error)
	// ListAll returns all documents ordered by creation time descending.
	// ExtractedText is omitted from the returned rows to keep listings light.
	ListAll(ctx context.Context) ([]Document, error)
	// GetByID returns the full document or ErrNotFound.
	GetByID(ctx context.Context, id string) (Document, error)
}
