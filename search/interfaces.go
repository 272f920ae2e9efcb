package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/poiesic/skulink/core"
)

// Hit is one document returned by the index, paired with the backend's
// own document id so follow-up queries can reference it directly.
type Hit struct {
	ID  string
	Doc core.IndexedDocument
}

// SortKey returns the pagination cursor value of the hit. Documents are
// paged in ascending uuid order, so the key is the uuid's string form.
func (h Hit) SortKey() string {
	return h.Doc.UUID.String()
}

// ProductIndex is the search index the pipeline writes documents to and
// queries for similar products. One index exists per category.
type ProductIndex interface {
	// IndexDocument stores the document in the category's index.
	IndexDocument(ctx context.Context, category string, doc *core.IndexedDocument) error

	// PageAfter returns up to size documents of the category sorted
	// ascending by uuid, strictly after the cursor. The empty cursor
	// starts from the beginning; an empty result ends pagination.
	PageAfter(ctx context.Context, category, after string, size int) ([]Hit, error)

	// MoreLikeThis returns the uuids of up to limit documents similar to
	// the given hit, never including the hit itself.
	MoreLikeThis(ctx context.Context, category string, hit Hit, limit int) ([]uuid.UUID, error)
}
