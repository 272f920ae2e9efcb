// Package core defines the domain model shared by every stage of the
// pipeline: raw feed offers, normalized product records, their search
// index projection, and the similar-product links discovered later.
package core
