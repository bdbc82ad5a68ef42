package format

// CompressionType identifies the compression algorithm applied to the
// dataset body inside the outer envelope.
type CompressionType uint8

const (
	CompressionNone   CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionBrotli CompressionType = 0x2 // CompressionBrotli represents Brotli compression.
	CompressionZstd   CompressionType = 0x3 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x4 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x5 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionBrotli:
		return "Brotli"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
