package similarity

import "errors"

var (
	// ErrProductIndexRequired is returned when a product index is not provided.
	ErrProductIndexRequired = errors.New("product index required")

	// ErrProductRepositoryRequired is returned when a product repository is not provided.
	ErrProductRepositoryRequired = errors.New("product repository required")

	// ErrWriterRequired is returned when a relationship writer is not provided.
	ErrWriterRequired = errors.New("relationship writer required")

	// ErrInvalidPageSize is returned when the page size is not positive.
	ErrInvalidPageSize = errors.New("page size must be positive")
)
