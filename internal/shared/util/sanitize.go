package util

import (
	"errors"
	"strings"
)

// SanitizeFileName makes a client-supplied file name safe to embed in a blob
// key. Separators are flattened to underscores and traversal patterns are
// rejected outright, since the result becomes part of a storage path.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
