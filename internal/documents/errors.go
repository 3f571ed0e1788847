package documents

import "errors"

var (
	// ErrNotFound reports a document id with no metadata row, or a blob key
	// with no stored object.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput reports a request rejected before any backend call.
	ErrInvalidInput = errors.New("invalid input")
)
