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


// Package skulink wires the full feed-to-links run: download the feed,
// ingest every offer into the relational store and the search index,
// then discover and persist similar-product links.
package skulink

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/poiesic/skulink/core"
	"github.com/poiesic/skulink/feed"
	"github.com/poiesic/skulink/ingestion"
	"github.com/poiesic/skulink/search"
	"github.com/poiesic/skulink/similarity"
	"github.com/poiesic/skulink/storage"
)

// App owns the two store clients and runs the pipeline stages in order.
type App struct {
	products      storage.ProductRepository
	index         search.ProductIndex
	category      string
	concurrency   int
	marketplaceID int
	lenient       bool
	feedDir       string
	httpClient    *http.Client
	logger        *slog.Logger

	downloadMonitor feed.DownloadMonitor
	ingestMonitor   ingestion.Monitor
	scanMonitor     similarity.ScanMonitor
}

// Option configures an App.
type Option func(*App) error

// WithConcurrency sets the shared concurrency limit: ingestion batch
// size and similarity page size.
func WithConcurrency(limit int) Option {
	return func(a *App) error {
		if limit < 1 {
			return ingestion.ErrInvalidConcurrency
		}
		a.concurrency = limit
		return nil
	}
}

// WithMarketplaceID sets the marketplace id stamped on every record.
func WithMarketplaceID(id int) Option {
	return func(a *App) error {
		a.marketplaceID = id
		return nil
	}
}

// WithLenient makes ingestion skip offers that fail normalization
// instead of failing the run.
func WithLenient(lenient bool) Option {
	return func(a *App) error {
		a.lenient = lenient
		return nil
	}
}

// WithFeedDir sets the directory the feed payload is downloaded into.
// Default is the OS temp directory.
func WithFeedDir(dir string) Option {
	return func(a *App) error {
		a.feedDir = dir
		return nil
	}
}

// WithHTTPClient sets the client used for the feed download.
func WithHTTPClient(client *http.Client) Option {
	return func(a *App) error {
		if client != nil {
			a.httpClient = client
		}
		return nil
	}
}

// WithMonitors injects progress observers for the three stages; nil
// entries keep the no-op default.
func WithMonitors(download feed.DownloadMonitor, ingest ingestion.Monitor, scan similarity.ScanMonitor) Option {
	return func(a *App) error {
		if download != nil {
			a.downloadMonitor = download
		}
		if ingest != nil {
			a.ingestMonitor = ingest
		}
		if scan != nil {
			a.scanMonitor = scan
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// New creates an App over an opened repository and index.
func New(products storage.ProductRepository, index search.ProductIndex, category string, opts ...Option) (*App, error) {
	if products == nil {
		return nil, ingestion.ErrProductRepositoryRequired
	}
	if index == nil {
		return nil, ingestion.ErrProductIndexRequired
	}

	a := &App{
		products:      products,
		index:         index,
		category:      category,
		concurrency:   1,
		marketplaceID: 1,
		feedDir:       os.TempDir(),
		httpClient:    http.DefaultClient,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Run executes a full pipeline run: download, ingest, link.
func (a *App) Run(ctx context.Context, feedURL string) error {
	path, err := feed.Download(ctx, a.httpClient, feedURL, a.feedDir, a.downloadMonitor)
	if err != nil {
		return err
	}
	a.logger.Info("feed downloaded", "path", path)

	if err := a.Ingest(ctx, path); err != nil {
		return err
	}
	a.logger.Info("ingestion finished", "category", a.category)

	if err := a.LinkSimilar(ctx); err != nil {
		return err
	}
	a.logger.Info("similar products linked", "category", a.category)
	return nil
}

// Ingest streams the feed file at path into both stores.
func (a *App) Ingest(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open feed file: %w", err)
	}
	defer file.Close()

	opts := []ingestion.Option{
		ingestion.WithConcurrency(a.concurrency),
		ingestion.WithMarketplaceID(a.marketplaceID),
		ingestion.WithLenient(a.lenient),
		ingestion.WithLogger(a.logger),
	}
	if a.ingestMonitor != nil {
		opts = append(opts, ingestion.WithMonitor(a.ingestMonitor))
	}
	pipeline, err := ingestion.NewPipeline(a.products, a.index, a.category, opts...)
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, feed.Offers(bufio.NewReader(file)))
}

// LinkSimilar scans the category index and persists similar-product
// links for every document.
func (a *App) LinkSimilar(ctx context.Context) error {
	writer, err := similarity.NewWriter(a.products, a.logger)
	if err != nil {
		return err
	}

	opts := []similarity.Option{
		similarity.WithPageSize(a.concurrency),
		similarity.WithLogger(a.logger),
	}
	if a.scanMonitor != nil {
		opts = append(opts, similarity.WithMonitor(a.scanMonitor))
	}
	scanner, err := similarity.NewScanner(a.index, writer, opts...)
	if err != nil {
		return err
	}
	defer scanner.Release()

	return scanner.Scan(ctx, a.category)
}

// Report returns up to limit products joined with their recorded
// similar products.
func (a *App) Report(ctx context.Context, limit int) ([]core.LinkedProduct, error) {
	return a.products.LinkedProducts(ctx, limit)
}

// Close releases the repository; the search client holds no resources
// that need explicit closing.
func (a *App) Close() error {
	return a.products.Close()
}
