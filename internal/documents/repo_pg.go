package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Insert stores a new document, assigning id and timestamps.
func (r *PGRepo) Insert(ctx context.Context, doc Document) (Document, error) {
	const query = `
INSERT INTO documents (
    id,
    stored_name,
    original_name,
    blob_key,
    extracted_text,
    size_bytes,
    media_type,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now().UTC()
	doc.ID = uuid.NewString()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	mediaType := doc.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
		doc.MediaType = mediaType
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.StoredName,
		doc.OriginalName,
		doc.BlobKey,
		doc.ExtractedText,
		doc.SizeBytes,
		mediaType,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ListAll returns documents newest-first. ExtractedText is not selected.
func (r *PGRepo) ListAll(ctx context.Context) ([]Document, error) {
	const query = `
SELECT id, stored_name, original_name, blob_key, size_bytes, media_type, created_at, updated_at
FROM documents
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.StoredName,
			&doc.OriginalName,
			&doc.BlobKey,
			&doc.SizeBytes,
			&doc.MediaType,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// GetByID fetches the full document row, extracted text included.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT id, stored_name, original_name, blob_key, extracted_text, size_bytes, media_type, created_at, updated_at
FROM documents
WHERE id = $1
LIMIT 1`

	var doc Document
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.StoredName,
		&doc.OriginalName,
		&doc.BlobKey,
		&doc.ExtractedText,
		&doc.SizeBytes,
		&doc.MediaType,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
