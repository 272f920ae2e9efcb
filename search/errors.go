package search

import "errors"

var (
	// ErrIndexWriteFailed indicates a document could not be indexed.
	ErrIndexWriteFailed = errors.New("index write failed")

	// ErrSearchFailed indicates a pagination or similarity query failed.
	ErrSearchFailed = errors.New("search query failed")
)
