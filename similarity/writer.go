package similarity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/skulink/core"
	"github.com/poiesic/skulink/storage"
)

// Writer persists the similarity links discovered for one page in a
// single bulk statement. Each call fully replaces the similar_sku value
// of every linked product; concurrent calls are safe because pages
// never share a uuid.
type Writer struct {
	products storage.ProductRepository
	logger   *slog.Logger
}

// NewWriter creates a relationship writer.
func NewWriter(products storage.ProductRepository, logger *slog.Logger) (*Writer, error) {
	if products == nil {
		return nil, ErrProductRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{products: products, logger: logger}, nil
}

// WriteLinks persists the links of one page.
func (w *Writer) WriteLinks(ctx context.Context, links []core.SimilarityLink) error {
	if len(links) == 0 {
		return nil
	}
	if err := w.products.SetSimilarProducts(ctx, links); err != nil {
		return fmt.Errorf("write %d similarity links: %w", len(links), err)
	}
	w.logger.Debug("similarity links written", "links", len(links))
	return nil
}
