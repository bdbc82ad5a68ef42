// Package compress provides the compression codecs for the embedded
// postcode dataset envelope.
//
// The dataset blob bundled into a binary is a single compressed byte
// sequence. A 4-byte envelope (see the section package) names the
// algorithm; this package resolves that name to a Codec and performs the
// one-time decompression at initialization. The shipped dataset uses
// Brotli at maximum level for binary size; the remaining codecs exist for
// tooling, tests, and datasets built with different size/speed trade-offs.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Supported algorithms:
//   - None: No compression (fastest, used by in-memory test datasets)
//   - Brotli: Best ratio at max level, the production default
//   - Zstd: Excellent ratio, fast decompression
//   - S2: Balanced compression and speed
//   - LZ4: Fast decompression, moderate compression
//
// All codecs are stateless values; pooled encoder/decoder instances behind
// them make every codec safe for concurrent use.
package compress
