// Package hash provides the xxHash64 helpers used for dictionary indexing and
// frame checksums.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a dictionary acronym.
func ID(acronym string) uint64 {
	return xxhash.Sum64String(acronym)
}

// Checksum computes the xxHash64 of a payload.
func Checksum(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}
