package storage

import (
	"context"

	"github.com/poiesic/skulink/core"
)

// ProductRepository persists product records and their similar-product
// links. Implementations must be safe for concurrent use; every
// concurrent call in this pipeline targets a disjoint set of rows.
type ProductRepository interface {
	// AddProduct inserts one normalized product record.
	AddProduct(ctx context.Context, record *core.ProductRecord) error

	// SetSimilarProducts replaces the similar_sku value of every linked
	// product in a single batched statement. Existing values are
	// overwritten, never merged.
	SetSimilarProducts(ctx context.Context, links []core.SimilarityLink) error

	// LinkedProducts returns up to limit products joined with the titles
	// of their recorded similar products.
	LinkedProducts(ctx context.Context, limit int) ([]core.LinkedProduct, error)

	// Close releases the underlying connections.
	Close() error
}
