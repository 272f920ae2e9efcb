// Package similarity discovers similar-product links for every indexed
// document of a category and persists them back to the relational
// store.
//
// The Scanner pages through the index in ascending uuid order using
// search-after cursors. Each fetched page is handed to a background
// unit that fans out one more-like-this query per document and bulk
// writes the resulting links; pagination continues while units run.
// Every unit is tracked and joined before the scan reports completion,
// so no link is lost and no goroutine outlives the scan. Unit failures
// are only surfaced at that final join.
package similarity
