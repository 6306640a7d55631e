package storage

import "errors"

var (
	// ErrNotFound indicates no blob exists at the requested key.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey indicates an empty key or one containing a traversal segment.
	ErrInvalidKey = errors.New("invalid storage key")
)
