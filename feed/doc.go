// Package feed reads product feeds: downloading the XML payload to a
// local file and walking it incrementally, one offer at a time, without
// ever holding the whole document in memory.
package feed
