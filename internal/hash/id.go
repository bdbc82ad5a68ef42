package hash

import "github.com/cespare/xxhash/v2"

// Digest computes the xxHash64 of the given bytes.
//
// It identifies a dataset build: two blobs with the same decompressed body
// produce the same digest, so diagnostics can tell dataset versions apart
// without carrying a separate version string.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
