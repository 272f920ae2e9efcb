package similarity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/poiesic/skulink/core"
	"github.com/poiesic/skulink/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqUUID builds deterministic uuids whose string forms sort in
// numeric order, so pagination order is predictable in tests.
func seqUUID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func hitFor(n int) search.Hit {
	id := seqUUID(n)
	return search.Hit{
		ID: fmt.Sprintf("doc-%d", n),
		Doc: core.IndexedDocument{
			UUID:  id,
			Title: fmt.Sprintf("product %d", n),
		},
	}
}

// fakeIndex serves pre-sorted hits with search-after pagination.
type fakeIndex struct {
	mu        sync.Mutex
	hits      []search.Hit // ascending by uuid
	similar   map[string][]uuid.UUID
	pageCalls []string
	pageErrOn string // cursor value that fails the fetch
	mltErrOn  string // hit id whose similarity query fails
}

func (f *fakeIndex) IndexDocument(_ context.Context, _ string, _ *core.IndexedDocument) error {
	return nil
}

func (f *fakeIndex) PageAfter(_ context.Context, _, after string, size int) ([]search.Hit, error) {
	f.mu.Lock()
	f.pageCalls = append(f.pageCalls, after)
	f.mu.Unlock()

	if f.pageErrOn != "" && after == f.pageErrOn {
		return nil, errors.New("page fetch rejected")
	}

	var page []search.Hit
	for _, hit := range f.hits {
		if hit.SortKey() > after {
			page = append(page, hit)
			if len(page) == size {
				break
			}
		}
	}
	return page, nil
}

func (f *fakeIndex) MoreLikeThis(_ context.Context, _ string, hit search.Hit, limit int) ([]uuid.UUID, error) {
	if f.mltErrOn != "" && hit.ID == f.mltErrOn {
		return nil, errors.New("similarity query rejected")
	}
	similar := f.similar[hit.ID]
	if len(similar) > limit {
		// The cap is part of the query, not post-hoc truncation.
		similar = similar[:limit]
	}
	return similar, nil
}

// fakeLinkStore records every bulk write.
type fakeLinkStore struct {
	mu    sync.Mutex
	calls [][]core.SimilarityLink
}

func (f *fakeLinkStore) AddProduct(_ context.Context, _ *core.ProductRecord) error { return nil }

func (f *fakeLinkStore) SetSimilarProducts(_ context.Context, links []core.SimilarityLink) error {
	copied := make([]core.SimilarityLink, len(links))
	copy(copied, links)
	f.mu.Lock()
	f.calls = append(f.calls, copied)
	f.mu.Unlock()
	return nil
}

func (f *fakeLinkStore) LinkedProducts(_ context.Context, _ int) ([]core.LinkedProduct, error) {
	return nil, nil
}

func (f *fakeLinkStore) Close() error { return nil }

type recordingScanMonitor struct {
	mu       sync.Mutex
	pages    []int
	cursors  []string
	written  []int
	awaiting int
}

func (m *recordingScanMonitor) PageFetched(documents int, cursor string) {
	m.mu.Lock()
	m.pages = append(m.pages, documents)
	m.cursors = append(m.cursors, cursor)
	m.mu.Unlock()
}

func (m *recordingScanMonitor) SimilarFound(_ uuid.UUID, _ int) {}

func (m *recordingScanMonitor) LinksWritten(links int) {
	m.mu.Lock()
	m.written = append(m.written, links)
	m.mu.Unlock()
}

func (m *recordingScanMonitor) AwaitingUnits(pending int) {
	m.mu.Lock()
	m.awaiting = pending
	m.mu.Unlock()
}

func newTestScanner(t *testing.T, index *fakeIndex, store *fakeLinkStore, opts ...Option) *Scanner {
	t.Helper()
	writer, err := NewWriter(store, nil)
	require.NoError(t, err)
	scanner, err := NewScanner(index, writer, opts...)
	require.NoError(t, err)
	t.Cleanup(scanner.Release)
	return scanner
}

func TestScanner_PaginationAndUnits(t *testing.T) {
	// Five documents a < b < c < d < e with page size 2 must produce
	// pages [a,b], [c,d], [e], then an empty fetch that terminates.
	index := &fakeIndex{
		hits:    []search.Hit{hitFor(1), hitFor(2), hitFor(3), hitFor(4), hitFor(5)},
		similar: map[string][]uuid.UUID{},
	}
	for n := 1; n <= 5; n++ {
		index.similar[fmt.Sprintf("doc-%d", n)] = []uuid.UUID{seqUUID(n + 100)}
	}
	store := &fakeLinkStore{}
	monitor := &recordingScanMonitor{}

	scanner := newTestScanner(t, index, store, WithPageSize(2), WithMonitor(monitor))
	require.NoError(t, scanner.Scan(context.Background(), "products"))

	// Four fetches: three non-empty pages and the terminating empty one.
	require.Len(t, index.pageCalls, 4)
	assert.Equal(t, "", index.pageCalls[0])
	assert.Equal(t, seqUUID(2).String(), index.pageCalls[1])
	assert.Equal(t, seqUUID(4).String(), index.pageCalls[2])
	assert.Equal(t, seqUUID(5).String(), index.pageCalls[3])

	assert.Equal(t, []int{2, 2, 1}, monitor.pages)
	assert.IsIncreasing(t, monitor.cursors, "cursor values must be strictly ascending")

	// Exactly one background unit per page, each with one bulk write.
	require.Len(t, store.calls, 3)
	assert.ElementsMatch(t, []int{2, 2, 1}, monitor.written)

	// Pages never share a uuid, and every document got linked.
	seen := make(map[uuid.UUID]bool)
	for _, call := range store.calls {
		for _, link := range call {
			assert.False(t, seen[link.UUID], "uuid %s appeared in two pages", link.UUID)
			seen[link.UUID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestScanner_SimilarCappedAtLimit(t *testing.T) {
	// The index holds seven candidates for one document; the recorded
	// links must still respect the cap, both at the default and at a
	// custom limit, because the cap travels with the query.
	candidates := make([]uuid.UUID, 7)
	for i := range candidates {
		candidates[i] = seqUUID(i + 200)
	}

	for name, tc := range map[string]struct {
		opts []Option
		want int
	}{
		"default cap": {nil, DefaultMaxSimilar},
		"custom cap":  {[]Option{WithMaxSimilar(3)}, 3},
	} {
		t.Run(name, func(t *testing.T) {
			index := &fakeIndex{
				hits:    []search.Hit{hitFor(1)},
				similar: map[string][]uuid.UUID{"doc-1": candidates},
			}
			store := &fakeLinkStore{}

			opts := append([]Option{WithPageSize(2)}, tc.opts...)
			scanner := newTestScanner(t, index, store, opts...)
			require.NoError(t, scanner.Scan(context.Background(), "products"))

			require.Len(t, store.calls, 1)
			require.Len(t, store.calls[0], 1)
			assert.Len(t, store.calls[0][0].Similar, tc.want)
		})
	}
}

func TestScanner_UnitFailureSurfacesAtJoin(t *testing.T) {
	// A failing similarity query on the first page must not stop
	// pagination; later pages complete and commit their links, and the
	// failure is reported by the final join.
	index := &fakeIndex{
		hits:     []search.Hit{hitFor(1), hitFor(2), hitFor(3), hitFor(4), hitFor(5)},
		similar:  map[string][]uuid.UUID{},
		mltErrOn: "doc-1",
	}
	store := &fakeLinkStore{}

	scanner := newTestScanner(t, index, store, WithPageSize(2))
	err := scanner.Scan(context.Background(), "products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "similarity query rejected")

	// Pagination ran to completion regardless of the failed unit.
	assert.Len(t, index.pageCalls, 4)

	// The failed page wrote nothing; the other two pages did.
	written := make(map[uuid.UUID]bool)
	for _, call := range store.calls {
		for _, link := range call {
			written[link.UUID] = true
		}
	}
	assert.NotContains(t, written, seqUUID(1))
	assert.NotContains(t, written, seqUUID(2))
	assert.Contains(t, written, seqUUID(3))
	assert.Contains(t, written, seqUUID(5))
}

func TestScanner_PaginationFailureStillJoinsUnits(t *testing.T) {
	index := &fakeIndex{
		hits:      []search.Hit{hitFor(1), hitFor(2), hitFor(3)},
		similar:   map[string][]uuid.UUID{},
		pageErrOn: seqUUID(2).String(),
	}
	store := &fakeLinkStore{}

	scanner := newTestScanner(t, index, store, WithPageSize(2))
	err := scanner.Scan(context.Background(), "products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page after")
}

func TestScanner_EmptyIndex(t *testing.T) {
	index := &fakeIndex{similar: map[string][]uuid.UUID{}}
	store := &fakeLinkStore{}
	monitor := &recordingScanMonitor{}

	scanner := newTestScanner(t, index, store, WithPageSize(2), WithMonitor(monitor))
	require.NoError(t, scanner.Scan(context.Background(), "products"))

	assert.Len(t, index.pageCalls, 1)
	assert.Empty(t, store.calls)
	assert.Empty(t, monitor.pages)
}

func TestNewScanner_Validation(t *testing.T) {
	store := &fakeLinkStore{}
	writer, err := NewWriter(store, nil)
	require.NoError(t, err)

	_, err = NewScanner(nil, writer)
	assert.ErrorIs(t, err, ErrProductIndexRequired)

	_, err = NewScanner(&fakeIndex{}, nil)
	assert.ErrorIs(t, err, ErrWriterRequired)

	_, err = NewScanner(&fakeIndex{}, writer, WithPageSize(0))
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = NewWriter(nil, nil)
	assert.ErrorIs(t, err, ErrProductRepositoryRequired)
}
