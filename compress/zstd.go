package compress

// ZstdCompressor provides Zstandard compression for the dataset envelope.
//
// Zstd decompresses faster than Brotli at a slightly worse ratio, making it
// the right choice for datasets rebuilt frequently during development or
// embedded in binaries where startup latency matters more than size.
//
// Two implementations exist behind build tags, following the same split the
// upstream ecosystem uses:
//   - default: pure-Go klauspost/compress/zstd with pooled encoder/decoder
//   - cgozstd tag: valyala/gozstd (libzstd bindings) for maximum throughput
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd codec instance
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
