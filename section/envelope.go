package section

import (
	"fmt"

	"github.com/addrnl/postcode/errs"
	"github.com/addrnl/postcode/format"
)

// Envelope is the 4-byte prefix of the embedded blob, read before any
// decompression: two magic bytes, the compression type of the body, and a
// reserved byte.
//
// It exists so the same parser can serve a Brotli-compressed production
// dataset and uncompressed or Zstd/S2/LZ4 datasets built by tooling and
// tests, and so a truncated blob fails loudly before codec dispatch.
type Envelope struct {
	Compression format.CompressionType
}

// NewEnvelope creates an Envelope for the given compression type.
func NewEnvelope(compression format.CompressionType) Envelope {
	return Envelope{Compression: compression}
}

// Parse validates the envelope at the start of blob and returns the
// envelope plus the compressed body that follows it.
//
// Returns:
//   - Envelope: The parsed envelope
//   - []byte: The compressed body (sub-slice of blob, not a copy)
//   - error: ErrInvalidEnvelope on short input, bad magic, or an unknown
//     compression type
func Parse(blob []byte) (Envelope, []byte, error) {
	if len(blob) < EnvelopeSize {
		return Envelope{}, nil, fmt.Errorf("%w: %d bytes", errs.ErrInvalidEnvelope, len(blob))
	}

	if blob[0] != EnvelopeMagic0 || blob[1] != EnvelopeMagic1 {
		return Envelope{}, nil, fmt.Errorf("%w: bad magic 0x%02x%02x", errs.ErrInvalidEnvelope, blob[0], blob[1])
	}

	compression := format.CompressionType(blob[2])
	switch compression {
	case format.CompressionNone, format.CompressionBrotli, format.CompressionZstd,
		format.CompressionS2, format.CompressionLZ4:
	default:
		return Envelope{}, nil, fmt.Errorf("%w: unknown compression 0x%02x", errs.ErrInvalidEnvelope, blob[2])
	}

	if blob[3] != 0 {
		return Envelope{}, nil, fmt.Errorf("%w: reserved byte 0x%02x", errs.ErrInvalidEnvelope, blob[3])
	}

	return Envelope{Compression: compression}, blob[EnvelopeSize:], nil
}

// Bytes returns the serialized envelope.
func (e Envelope) Bytes() []byte {
	return []byte{EnvelopeMagic0, EnvelopeMagic1, byte(e.Compression), 0}
}
