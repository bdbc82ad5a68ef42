package encoding

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/addrnl/postcode/errs"
	"github.com/addrnl/postcode/internal/pool"
)

// MaxStringLength is the maximum byte length of a street or city name.
// The longest official Dutch street name is well under 100 bytes; 255
// leaves headroom while keeping corrupt length fields cheap to reject.
const MaxStringLength = 255

// EncodeStringTable encodes the deduplicated street/city table.
//
// Format: uvarint(count), then per entry uvarint(length) + UTF-8 bytes.
// Entry order defines the reference values used by the house records, so
// the table must be encoded exactly as the interner produced it.
//
// Parameters:
//   - table: The ordered, deduplicated strings
//
// Returns:
//   - []byte: The encoded string table section
//   - error: ErrStringTooLong if an entry exceeds MaxStringLength
func EncodeStringTable(table []string) ([]byte, error) {
	var temp [binary.MaxVarintLen64]byte

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	n := binary.PutUvarint(temp[:], uint64(len(table)))
	buf.MustWrite(temp[:n])

	for _, s := range table {
		if len(s) > MaxStringLength {
			return nil, fmt.Errorf("%w: %q is %d bytes (max %d)", errs.ErrStringTooLong, s, len(s), MaxStringLength)
		}

		buf.Grow(1 + len(s))
		n := binary.PutUvarint(temp[:], uint64(len(s)))
		buf.MustWrite(temp[:n])
		buf.MustWrite([]byte(s))
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// DecodeStringTable decodes a string table section.
//
// Every string is copied out of the input slice, so the decompressed
// dataset body does not stay pinned by the table.
//
// Parameters:
//   - data: The encoded string table section (exactly one table)
//
// Returns:
//   - []string: The decoded table, in reference order
//   - error: ErrInvalidStringTable on truncation, oversized entries, or
//     trailing bytes
func DecodeStringTable(data []byte) ([]string, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot read entry count", errs.ErrInvalidStringTable)
	}
	if count > uint64(len(data)) {
		// Each entry needs at least one length byte; a count larger than
		// the remaining bytes is corrupt regardless of content.
		return nil, fmt.Errorf("%w: implausible entry count %d", errs.ErrInvalidStringTable, count)
	}
	offset := n

	table := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		length, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: cannot read length of entry %d", errs.ErrInvalidStringTable, i)
		}
		if length > MaxStringLength {
			return nil, fmt.Errorf("%w: entry %d is %d bytes (max %d)", errs.ErrInvalidStringTable, i, length, MaxStringLength)
		}
		offset += n

		end := offset + int(length)
		if end > len(data) {
			return nil, fmt.Errorf("%w: entry %d truncated", errs.ErrInvalidStringTable, i)
		}

		table = append(table, string(data[offset:end]))
		offset = end
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidStringTable, len(data)-offset)
	}

	return table, nil
}

// StringInterner deduplicates street and city names while the dataset
// builder accumulates rows, assigning each distinct string a stable
// reference in first-seen order.
type StringInterner struct {
	refs  map[string]uint32
	table []string
}

// NewStringInterner creates an empty interner.
func NewStringInterner() *StringInterner {
	return &StringInterner{
		refs: make(map[string]uint32),
	}
}

// Ref returns the reference for s, interning it on first sight.
func (si *StringInterner) Ref(s string) uint32 {
	if ref, ok := si.refs[s]; ok {
		return ref
	}

	if len(si.table) >= math.MaxUint32 {
		// Unreachable for any real dataset; guards the uint32 refs.
		panic("string table overflow")
	}

	ref := uint32(len(si.table)) //nolint:gosec
	si.refs[s] = ref
	si.table = append(si.table, s)

	return ref
}

// Len returns the number of distinct strings interned.
func (si *StringInterner) Len() int {
	return len(si.table)
}

// Table returns the interned strings in reference order.
// The returned slice is the interner's backing store; callers must not
// modify it.
func (si *StringInterner) Table() []string {
	return si.table
}
