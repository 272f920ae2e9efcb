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


package ingestion

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/skulink/core"
	"github.com/poiesic/skulink/search"
	"github.com/poiesic/skulink/storage"
)

// Pipeline writes normalized product records to the relational store
// and the search index in bounded concurrent batches.
type Pipeline struct {
	products      storage.ProductRepository
	index         search.ProductIndex
	category      string
	marketplaceID int
	concurrency   int
	lenient       bool
	monitor       Monitor
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithConcurrency sets the batch size: up to 2*limit store operations
// are in flight per batch.
func WithConcurrency(limit int) Option {
	return func(p *Pipeline) error {
		if limit < 1 {
			return ErrInvalidConcurrency
		}
		p.concurrency = limit
		return nil
	}
}

// WithMarketplaceID sets the marketplace id stamped on every record.
// Default is 1.
func WithMarketplaceID(id int) Option {
	return func(p *Pipeline) error {
		p.marketplaceID = id
		return nil
	}
}

// WithLenient makes the pipeline log and skip offers that fail
// normalization instead of failing the run.
func WithLenient(lenient bool) Option {
	return func(p *Pipeline) error {
		p.lenient = lenient
		return nil
	}
}

// WithMonitor sets a progress monitor.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a dual-write ingestion pipeline for one category.
func NewPipeline(products storage.ProductRepository, index search.ProductIndex, category string, opts ...Option) (*Pipeline, error) {
	if products == nil {
		return nil, ErrProductRepositoryRequired
	}
	if index == nil {
		return nil, ErrProductIndexRequired
	}

	concurrency := runtime.NumCPU() / 2
	if concurrency < 1 {
		concurrency = 1
	}

	p := &Pipeline{
		products:      products,
		index:         index,
		category:      category,
		marketplaceID: 1,
		concurrency:   concurrency,
		monitor:       &noopMonitor{},
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run consumes the offer sequence to exhaustion. Offers are normalized
// one at a time and flushed in batches of the concurrency limit; the
// final partial batch is flushed the same way. The first error — a
// malformed feed entry, a failed normalization in strict mode, or any
// store operation failure — terminates the run.
func (p *Pipeline) Run(ctx context.Context, offers iter.Seq2[*core.RawOffer, error]) error {
	records := make([]*core.ProductRecord, 0, p.concurrency)
	documents := make([]*core.IndexedDocument, 0, p.concurrency)

	for offer, err := range offers {
		if err != nil {
			return err
		}

		record, document, err := core.NormalizeOffer(offer, p.marketplaceID)
		if err != nil {
			if p.lenient {
				p.logger.Warn("skipping invalid offer", "err", err)
				continue
			}
			return err
		}

		p.monitor.OfferQueued(record.Title)
		records = append(records, record)
		documents = append(documents, document)

		if len(records) == p.concurrency {
			if err := p.flush(ctx, records, documents); err != nil {
				return err
			}
			records = records[:0]
			documents = documents[:0]
		}
	}

	return p.flush(ctx, records, documents)
}

// flush dispatches one insert and one index write per record
// concurrently and waits for all of them. Operations within the batch
// have no ordering among themselves; a failing operation fails the
// whole wait, and completed siblings are not rolled back.
func (p *Pipeline) flush(ctx context.Context, records []*core.ProductRecord, documents []*core.IndexedDocument) error {
	if len(records) == 0 {
		return nil
	}

	operations := 2 * len(records)
	p.monitor.BatchDispatched(operations)

	var g errgroup.Group
	for _, record := range records {
		g.Go(func() error {
			return p.products.AddProduct(ctx, record)
		})
	}
	for _, document := range documents {
		g.Go(func() error {
			return p.index.IndexDocument(ctx, p.category, document)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("batch of %d operations failed: %w", operations, err)
	}

	p.monitor.BatchCompleted(operations)
	return nil
}
