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

// Package elastic implements search.ProductIndex on Elasticsearch via
// the official go-elasticsearch client.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/poiesic/skulink/core"
	"github.com/poiesic/skulink/search"
)

// Index is an Elasticsearch-backed ProductIndex.
type Index struct {
	client *elasticsearch.Client
}

var _ search.ProductIndex = (*Index)(nil)

// Open builds an Elasticsearch client from the config.
func Open(cfg Config) (*Index, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  cfg.Addresses,
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("open elasticsearch: %w", err)
	}
	return &Index{client: client}, nil
}

// IndexDocument stores the document in the category's index.
func (i *Index) IndexDocument(ctx context.Context, category string, doc *core.IndexedDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %w", search.ErrIndexWriteFailed, err)
	}

	res, err := i.client.Index(category, bytes.NewReader(body), i.client.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", search.ErrIndexWriteFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", search.ErrIndexWriteFailed, res.String())
	}
	return nil
}

// searchResponse mirrors the slice of an Elasticsearch search response
// the pipeline consumes.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string               `json:"_id"`
			Source core.IndexedDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// PageAfter fetches one page of category documents sorted ascending by
// uuid, strictly after the cursor.
func (i *Index) PageAfter(ctx context.Context, category, after string, size int) ([]search.Hit, error) {
	body, err := buildPageQuery(after, size)
	if err != nil {
		return nil, fmt.Errorf("%w: encode page query: %w", search.ErrSearchFailed, err)
	}

	response, err := i.search(ctx, category, body)
	if err != nil {
		return nil, err
	}

	hits := make([]search.Hit, len(response.Hits.Hits))
	for j, hit := range response.Hits.Hits {
		hits[j] = search.Hit{ID: hit.ID, Doc: hit.Source}
	}
	return hits, nil
}

// MoreLikeThis returns the uuids of up to limit documents similar to
// the hit, excluding the hit itself.
func (i *Index) MoreLikeThis(ctx context.Context, category string, hit search.Hit, limit int) ([]uuid.UUID, error) {
	body, err := buildSimilarQuery(category, hit.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: encode similarity query: %w", search.ErrSearchFailed, err)
	}

	response, err := i.search(ctx, category, body)
	if err != nil {
		return nil, err
	}

	similar := make([]uuid.UUID, len(response.Hits.Hits))
	for j, h := range response.Hits.Hits {
		similar[j] = h.Source.UUID
	}
	return similar, nil
}

func (i *Index) search(ctx context.Context, category string, body []byte) (*searchResponse, error) {
	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(category),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrSearchFailed, err)
	}
	defer res.Body.Close()

	return decodeSearchResponse(res)
}

func decodeSearchResponse(res *esapi.Response) (*searchResponse, error) {
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", search.ErrSearchFailed, res.String())
	}

	var response searchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", search.ErrSearchFailed, err)
	}
	return &response, nil
}
