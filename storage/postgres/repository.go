// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package postgres implements storage.ProductRepository on PostgreSQL
// via database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/poiesic/skulink/core"
	"github.com/poiesic/skulink/storage"
)

// Repository is a PostgreSQL-backed ProductRepository.
type Repository struct {
	db *sql.DB
}

var _ storage.ProductRepository = (*Repository)(nil)

// Open connects to PostgreSQL and verifies the connection. The pool is
// capped at cfg.MaxConns when it is positive.
func Open(ctx context.Context, cfg Config) (*Repository, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
		db.SetMaxIdleConns(cfg.MaxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Repository{db: db}, nil
}

const insertProductQuery = `
	INSERT INTO sku
	(uuid, marketplace_id, product_id, title, description,
	brand, seller_id, seller_name, first_image_url,
	category_id, category_lvl_1, category_lvl_2,
	category_lvl_3, category_remaining, features,
	rating_count, rating_value, price_before_discounts,
	discount, price_after_discounts, bonuses, sales, currency, barcode)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
	$21, $22, $23, $24)`

// AddProduct inserts one product record. The features map is stored as
// a JSON document; similar_sku stays NULL until the similarity stage.
func (r *Repository) AddProduct(ctx context.Context, record *core.ProductRecord) error {
	features, err := json.Marshal(record.Features)
	if err != nil {
		return fmt.Errorf("%w: encode features: %w", storage.ErrWriteFailed, err)
	}

	// lib/pq would send []byte as bytea, which a json column rejects.
	_, err = r.db.ExecContext(ctx, insertProductQuery,
		record.UUID,
		record.MarketplaceID,
		record.ProductID,
		record.Title,
		record.Description,
		record.Brand,
		record.SellerID,
		record.SellerName,
		record.FirstImageURL,
		record.CategoryID,
		record.CategoryLvl1,
		record.CategoryLvl2,
		record.CategoryLvl3,
		record.CategoryRemaining,
		string(features),
		record.RatingCount,
		record.RatingValue,
		record.PriceBeforeDiscounts,
		record.Discount,
		record.PriceAfterDiscounts,
		record.Bonuses,
		record.Sales,
		record.Currency,
		record.Barcode,
	)
	if err != nil {
		return fmt.Errorf("%w: insert product %d: %w", storage.ErrWriteFailed, record.ProductID, err)
	}
	return nil
}

// SetSimilarProducts replaces similar_sku for every link in one
// multi-row statement. Previous values are overwritten.
func (r *Repository) SetSimilarProducts(ctx context.Context, links []core.SimilarityLink) error {
	if len(links) == 0 {
		return nil
	}

	query, args := buildSimilarUpdate(links)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: set similar products: %w", storage.ErrWriteFailed, err)
	}
	return nil
}

// buildSimilarUpdate renders one batched UPDATE statement covering all
// links, pairing each uuid with its replacement similar_sku array.
func buildSimilarUpdate(links []core.SimilarityLink) (string, []any) {
	values := make([]string, len(links))
	args := make([]any, 0, 2*len(links))
	for i, link := range links {
		values[i] = fmt.Sprintf("($%d::uuid, $%d::uuid[])", 2*i+1, 2*i+2)
		similar := make([]string, len(link.Similar))
		for j, id := range link.Similar {
			similar[j] = id.String()
		}
		args = append(args, link.UUID, pq.Array(similar))
	}

	query := fmt.Sprintf(`
		UPDATE sku AS s
		SET similar_sku = v.similar
		FROM (VALUES %s) AS v(uuid, similar)
		WHERE s.uuid = v.uuid`, strings.Join(values, ", "))
	return query, args
}

const linkedProductsQuery = `
	SELECT
	s.uuid, s.title,
	s2.uuid AS similar_uuid, s2.title AS similar_title
	FROM sku s
	JOIN sku s2 ON s2.uuid = ANY(s.similar_sku)
	ORDER BY s.uuid
	LIMIT $1`

// LinkedProducts joins every product against its recorded similar
// products, grouped per source product in uuid order.
func (r *Repository) LinkedProducts(ctx context.Context, limit int) ([]core.LinkedProduct, error) {
	rows, err := r.db.QueryContext(ctx, linkedProductsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: linked products: %w", storage.ErrQueryFailed, err)
	}
	defer rows.Close()

	var products []core.LinkedProduct
	for rows.Next() {
		var id, similarID uuid.UUID
		var title, similarTitle string
		if err := rows.Scan(&id, &title, &similarID, &similarTitle); err != nil {
			return nil, fmt.Errorf("%w: scan linked product: %w", storage.ErrQueryFailed, err)
		}
		products = appendLinkedRow(products, id, title, similarID, similarTitle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: linked products: %w", storage.ErrQueryFailed, err)
	}
	return products, nil
}

// appendLinkedRow folds one join row into the per-product grouping,
// relying on the query's ORDER BY to keep source rows adjacent.
func appendLinkedRow(products []core.LinkedProduct, id uuid.UUID, title string, similarID uuid.UUID, similarTitle string) []core.LinkedProduct {
	ref := core.LinkedRef{UUID: similarID, Title: similarTitle}
	if n := len(products); n > 0 && products[n-1].UUID == id {
		products[n-1].Similar = append(products[n-1].Similar, ref)
		return products
	}
	return append(products, core.LinkedProduct{
		UUID:    id,
		Title:   title,
		Similar: []core.LinkedRef{ref},
	})
}

// Close closes the underlying pool.
func (r *Repository) Close() error {
	return r.db.Close()
}
