// Package search defines the search index contract the pipeline writes
// documents to and discovers similar products from. The Elasticsearch
// implementation lives in search/elastic.
package search
