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


package similarity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/skulink/core"
	"github.com/poiesic/skulink/search"
)

// DefaultMaxSimilar caps how many similar products are recorded per
// source document.
const DefaultMaxSimilar = 5

// Scanner walks a category's index and discovers similar products for
// every document.
type Scanner struct {
	index      search.ProductIndex
	writer     *Writer
	pageSize   int
	maxSimilar int
	pool       *ants.Pool
	monitor    ScanMonitor
	logger     *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner) error

// WithPageSize sets the pagination page size. It should match the
// pipeline's concurrency limit.
func WithPageSize(size int) Option {
	return func(s *Scanner) error {
		if size < 1 {
			return ErrInvalidPageSize
		}
		s.pageSize = size
		return nil
	}
}

// WithMaxSimilar overrides the per-document similar cap.
// Default is DefaultMaxSimilar.
func WithMaxSimilar(limit int) Option {
	return func(s *Scanner) error {
		if limit < 1 {
			limit = DefaultMaxSimilar
		}
		s.maxSimilar = limit
		return nil
	}
}

// WithMonitor sets a progress monitor.
func WithMonitor(monitor ScanMonitor) Option {
	return func(s *Scanner) error {
		if monitor == nil {
			monitor = &noopScanMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScanner creates a similarity scanner. The background-unit pool is
// sized to the page size; call Release when done with the scanner.
func NewScanner(index search.ProductIndex, writer *Writer, opts ...Option) (*Scanner, error) {
	if index == nil {
		return nil, ErrProductIndexRequired
	}
	if writer == nil {
		return nil, ErrWriterRequired
	}

	pageSize := runtime.NumCPU() / 2
	if pageSize < 1 {
		pageSize = 1
	}

	s := &Scanner{
		index:      index,
		writer:     writer,
		pageSize:   pageSize,
		maxSimilar: DefaultMaxSimilar,
		monitor:    &noopScanMonitor{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(s.pageSize)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// Scan pages through the category and links every document to its
// similar products.
//
// Page fetches are strictly sequential and ordered by uuid; the
// background unit spawned per page runs decoupled from later fetches.
// Once an empty page ends pagination, every scheduled unit is awaited —
// none is dropped or cancelled — and their collected failures are
// returned joined. A unit failure therefore surfaces only at this final
// join, after later pages may already have committed their links.
func (s *Scanner) Scan(ctx context.Context, category string) error {
	var units sync.WaitGroup
	var finished atomic.Int64
	var mu sync.Mutex
	var unitErrs []error

	scheduled := 0
	cursor := ""
	for {
		hits, err := s.index.PageAfter(ctx, category, cursor, s.pageSize)
		if err != nil {
			units.Wait()
			mu.Lock()
			defer mu.Unlock()
			return errors.Join(append(unitErrs, fmt.Errorf("page after %q: %w", cursor, err))...)
		}
		if len(hits) == 0 {
			break
		}

		cursor = hits[len(hits)-1].SortKey()
		s.monitor.PageFetched(len(hits), cursor)

		page := hits
		units.Add(1)
		submitErr := s.pool.Submit(func() {
			defer units.Done()
			defer finished.Add(1)
			if err := s.processPage(ctx, category, page); err != nil {
				mu.Lock()
				unitErrs = append(unitErrs, err)
				mu.Unlock()
			}
		})
		if submitErr != nil {
			units.Done()
			units.Wait()
			mu.Lock()
			defer mu.Unlock()
			return errors.Join(append(unitErrs, fmt.Errorf("schedule page unit: %w", submitErr))...)
		}
		scheduled++
	}

	pending := scheduled - int(finished.Load())
	s.monitor.AwaitingUnits(pending)
	s.logger.Debug("pagination finished, awaiting background units",
		"scheduled", scheduled, "pending", pending)

	units.Wait()
	mu.Lock()
	defer mu.Unlock()
	return errors.Join(unitErrs...)
}

// processPage fans out one similarity query per document concurrently,
// then bulk writes the page's links.
func (s *Scanner) processPage(ctx context.Context, category string, page []search.Hit) error {
	links := make([]core.SimilarityLink, len(page))

	var g errgroup.Group
	for i, hit := range page {
		g.Go(func() error {
			similar, err := s.index.MoreLikeThis(ctx, category, hit, s.maxSimilar)
			if err != nil {
				return fmt.Errorf("similar products for %s: %w", hit.Doc.UUID, err)
			}
			links[i] = core.SimilarityLink{UUID: hit.Doc.UUID, Similar: similar}
			s.monitor.SimilarFound(hit.Doc.UUID, len(similar))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.writer.WriteLinks(ctx, links); err != nil {
		return err
	}
	s.monitor.LinksWritten(len(links))
	return nil
}

// Release releases the background-unit pool.
// The scanner should not be used after calling Release.
func (s *Scanner) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}
