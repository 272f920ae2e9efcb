package ingestion

import "errors"

var (
	// ErrProductRepositoryRequired is returned when a product repository is not provided.
	ErrProductRepositoryRequired = errors.New("product repository required")

	// ErrProductIndexRequired is returned when a product index is not provided.
	ErrProductIndexRequired = errors.New("product index required")

	// ErrInvalidConcurrency is returned when the concurrency limit is not positive.
	ErrInvalidConcurrency = errors.New("concurrency limit must be positive")
)
