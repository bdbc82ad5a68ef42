package section

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/addrnl/postcode/errs"
)

// Header is the fixed-size header at the start of the decompressed dataset
// body.
type Header struct {
	// BuildTime is the dataset build timestamp, unix microseconds.
	BuildTime int64 // byte offset 4-11
	// PostcodeCount is the number of unique postcodes in the index.
	PostcodeCount uint32 // byte offset 12-15
	// RecordOffset is the byte offset of the record section within the
	// body. The FST section spans [HeaderSize, RecordOffset).
	RecordOffset uint32 // byte offset 16-19
	// StringOffset is the byte offset of the string table section within
	// the body. The record section spans [RecordOffset, StringOffset).
	StringOffset uint32 // byte offset 20-23
	// StringCount is the number of entries in the string table, used to
	// cross-check the decoded table.
	StringCount uint32 // byte offset 24-27
	// Checksum is the CRC32C of the body after the header.
	Checksum uint32 // byte offset 28-31

	// Flag is the packed field for options, version, and magic number.
	Flag Flag // byte offset 0-3
}

// NewHeader creates a Header with the given build time. Counts, offsets,
// and checksum are filled in when the builder finishes.
func NewHeader(buildTime time.Time) *Header {
	return &Header{
		BuildTime: buildTime.UnixMicro(),
		Flag:      NewFlag(),
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, flag validation
//     errors, or section-layout errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The Options field itself is always little-endian; it carries the
	// endianness of everything after it.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Version = data[2]
	h.Flag.Reserved = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()

	buildTimeUint := engine.Uint64(data[4:12])
	h.BuildTime = *(*int64)(unsafe.Pointer(&buildTimeUint))

	h.PostcodeCount = engine.Uint32(data[12:16])
	h.RecordOffset = engine.Uint32(data[16:20])
	h.StringOffset = engine.Uint32(data[20:24])
	h.StringCount = engine.Uint32(data[24:28])
	h.Checksum = engine.Uint32(data[28:32])

	if h.RecordOffset < HeaderSize || h.StringOffset < h.RecordOffset {
		return fmt.Errorf("%w: section offsets out of order", errs.ErrInvalidHeaderFlags)
	}

	return nil
}

// Bytes serializes the Header into a byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Version
	b[3] = h.Flag.Reserved

	// Bitwise conversion keeps the timestamp bits intact regardless of sign.
	engine.PutUint64(b[4:12], *(*uint64)(unsafe.Pointer(&h.BuildTime)))
	engine.PutUint32(b[12:16], h.PostcodeCount)
	engine.PutUint32(b[16:20], h.RecordOffset)
	engine.PutUint32(b[20:24], h.StringOffset)
	engine.PutUint32(b[24:28], h.StringCount)
	engine.PutUint32(b[28:32], h.Checksum)

	return b
}

// BuildTimeAsTime returns the build time as a time.Time.
func (h *Header) BuildTimeAsTime() time.Time {
	return time.UnixMicro(h.BuildTime).UTC()
}
