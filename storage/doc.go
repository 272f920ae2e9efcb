// Package storage defines the persistence contract for product records.
// Backend implementations live in subpackages (see storage/postgres).
package storage
