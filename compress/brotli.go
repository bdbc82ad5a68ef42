package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
)

// brotliWriterPool pools brotli writers for reuse. Brotli at BestCompression
// allocates large internal state (hash tables, window); reusing writers via
// Reset keeps repeated dataset builds from re-paying that allocation.
var brotliWriterPool = sync.Pool{
	New: func() any {
		return brotli.NewWriterLevel(io.Discard, brotli.BestCompression)
	},
}

// BrotliCompressor provides Brotli compression for the embedded dataset
// envelope.
//
// Brotli is the production default: the dataset is compressed once at
// build time and decompressed once per process, so maximum-level
// compression is pure win — decompression speed is independent of the
// compression level, and binary size is what the embedded blob is
// optimized for.
//
// Typical numbers for the Dutch postal dataset: tens of megabytes raw,
// a few megabytes compressed, tens of milliseconds to decompress at
// startup.
type BrotliCompressor struct{}

var _ Codec = (*BrotliCompressor)(nil)

// NewBrotliCompressor creates a new Brotli codec at maximum compression level.
//
// Returns:
//   - BrotliCompressor: New Brotli codec instance
func NewBrotliCompressor() BrotliCompressor {
	return BrotliCompressor{}
}

// Compress compresses the input data using Brotli at BestCompression (level 11).
//
// Uses a pooled writer for better performance across repeated builds.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: Compressed data (nil if input is empty)
//   - error: Compression error if any
func (c BrotliCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	w, _ := brotliWriterPool.Get().(*brotli.Writer)
	defer brotliWriterPool.Put(w)

	var buf bytes.Buffer
	buf.Grow(len(data) / 4)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses Brotli-compressed data.
//
// This method validates the stream and returns an error if the data is
// truncated, tampered with, or was not compressed with Brotli.
//
// Parameters:
//   - data: Compressed data to decompress
//
// Returns:
//   - []byte: Decompressed data (nil if input is empty)
//   - error: Decompression error if the stream is invalid
func (c BrotliCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := brotli.NewReader(bytes.NewReader(data))
	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("brotli decompression failed: %w", err)
	}

	return decompressed, nil
}
