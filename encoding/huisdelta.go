package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"

	"github.com/addrnl/postcode/errs"
	"github.com/addrnl/postcode/internal/pool"
)

// MaxGroupSize is the maximum number of house records in one postcode
// group. The postcode index packs the record count into 16 bits of the
// FST value, which bounds it at 65535; real postcodes top out at a few
// hundred addresses.
const MaxGroupSize = math.MaxUint16

// HouseRecord is one address within a postcode: a house number plus
// references into the street/city string table.
type HouseRecord struct {
	// Huisnummer is the absolute house number.
	Huisnummer uint32
	// StraatRef is the street name's index in the string table.
	StraatRef uint32
	// WoonplaatsRef is the city name's index in the string table.
	WoonplaatsRef uint32
}

// HouseGroupEncoder encodes per-postcode house record groups into the flat
// record payload using delta compression.
//
// Encoding per record:
//   - house number: uvarint; absolute for the first record of a group,
//     delta from the previous record otherwise
//   - street reference: uvarint
//   - city reference: uvarint
//
// Groups must be appended in the same order their postcodes are inserted
// into the index, so the byte offsets returned by WriteGroup can be packed
// into the FST values.
//
// Typical compression: a contiguous even-numbered street side
// (2,4,6,...,28) costs 1 byte per house number after the first, versus 4
// bytes raw.
type HouseGroupEncoder struct {
	temp   [binary.MaxVarintLen64]byte
	buf    *pool.ByteBuffer
	groups int
}

// NewHouseGroupEncoder creates a new house record group encoder backed by
// a pooled buffer.
func NewHouseGroupEncoder() *HouseGroupEncoder {
	return &HouseGroupEncoder{
		buf: pool.GetBuffer(),
	}
}

// WriteGroup appends one postcode's record group to the payload and
// returns the group's byte offset within the payload.
//
// The records must be sorted by ascending house number. Equal neighbours
// are allowed: a postcode may carry the same house number more than once
// (building subdivisions); lookups return the first record in stored
// order. Descending input indicates a bug in the caller's sort pass and is
// rejected.
//
// Parameters:
//   - records: The group's records, sorted by house number
//
// Returns:
//   - int: Byte offset of the group within the record payload
//   - error: ErrInvalidRecordGroup for an empty group, ErrGroupTooLarge or
//     ErrRecordOutOfOrder on invariant violations
func (e *HouseGroupEncoder) WriteGroup(records []HouseRecord) (int, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: empty group", errs.ErrInvalidRecordGroup)
	}
	if len(records) > MaxGroupSize {
		return 0, fmt.Errorf("%w: %d records (max %d)", errs.ErrGroupTooLarge, len(records), MaxGroupSize)
	}

	offset := e.buf.Len()

	// Worst case 5 bytes per varint, 3 varints per record.
	e.buf.Grow(len(records) * 15)

	prev := uint32(0)
	for i, rec := range records {
		delta := uint64(rec.Huisnummer)
		if i > 0 {
			if rec.Huisnummer < prev {
				return 0, fmt.Errorf("%w: house number %d after %d", errs.ErrRecordOutOfOrder, rec.Huisnummer, prev)
			}
			delta = uint64(rec.Huisnummer - prev)
		}
		prev = rec.Huisnummer

		n := binary.PutUvarint(e.temp[:], delta)
		e.buf.MustWrite(e.temp[:n])

		n = binary.PutUvarint(e.temp[:], uint64(rec.StraatRef))
		e.buf.MustWrite(e.temp[:n])

		n = binary.PutUvarint(e.temp[:], uint64(rec.WoonplaatsRef))
		e.buf.MustWrite(e.temp[:n])
	}

	e.groups++

	return offset, nil
}

// Bytes returns the encoded record payload containing all written groups.
//
// The returned slice references the internal buffer and is valid until the
// next call to WriteGroup or Finish.
func (e *HouseGroupEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Groups returns the number of groups written.
func (e *HouseGroupEncoder) Groups() int {
	return e.groups
}

// Size returns the size in bytes of the encoded payload.
func (e *HouseGroupEncoder) Size() int {
	return e.buf.Len()
}

// Finish releases the internal buffer back to the pool and resets the
// encoder for a new payload.
func (e *HouseGroupEncoder) Finish() {
	pool.PutBuffer(e.buf)
	e.buf = pool.GetBuffer()
	e.groups = 0
}

// HouseGroupDecoder decodes delta-encoded house record groups.
//
// The decoder is stateless and safe for concurrent use; every method
// operates on the payload slice handed to it. Callers pass the record
// payload sliced at a group's offset; the count bounds all reads, so a
// group can never read past its own records even though the slice extends
// to the end of the payload.
type HouseGroupDecoder struct{}

// NewHouseGroupDecoder creates a new house record group decoder.
func NewHouseGroupDecoder() HouseGroupDecoder {
	return HouseGroupDecoder{}
}

// Find searches a group for an exact house number match.
//
// It walks the deltas left to right, maintaining the prefix sum, and stops
// as soon as the running house number exceeds the target — for a miss near
// the front of a group this avoids decoding the rest. If the same house
// number appears more than once, the first record in stored order wins.
//
// Parameters:
//   - data: Record payload starting at the group's byte offset
//   - count: Number of records in the group
//   - huisnummer: House number to match
//
// Returns:
//   - HouseRecord: The matching record with its absolute house number
//   - bool: true on an exact match, false if absent or the data is malformed
func (d HouseGroupDecoder) Find(data []byte, count int, huisnummer uint32) (HouseRecord, bool) {
	offset := 0
	cur := uint64(0)

	for i := 0; i < count; i++ {
		delta, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return HouseRecord{}, false
		}
		offset += n

		if i == 0 {
			cur = delta
		} else {
			cur += delta
		}

		straatRef, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return HouseRecord{}, false
		}
		offset += n

		woonplaatsRef, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return HouseRecord{}, false
		}
		offset += n

		if cur == uint64(huisnummer) {
			return HouseRecord{
				Huisnummer:    huisnummer,
				StraatRef:     uint32(straatRef),     //nolint:gosec
				WoonplaatsRef: uint32(woonplaatsRef), //nolint:gosec
			}, true
		}

		if cur > uint64(huisnummer) {
			// Numbers are non-descending; nothing later can match.
			return HouseRecord{}, false
		}
	}

	return HouseRecord{}, false
}

// All returns an iterator over a group's records with absolute house
// numbers reconstructed via prefix sum.
//
// Iteration stops early on malformed varints or once count records have
// been yielded.
//
// Parameters:
//   - data: Record payload starting at the group's byte offset
//   - count: Number of records in the group
func (d HouseGroupDecoder) All(data []byte, count int) iter.Seq[HouseRecord] {
	return func(yield func(HouseRecord) bool) {
		offset := 0
		cur := uint64(0)

		for i := 0; i < count; i++ {
			delta, n := binary.Uvarint(data[offset:])
			if n <= 0 {
				return
			}
			offset += n

			if i == 0 {
				cur = delta
			} else {
				cur += delta
			}

			straatRef, n := binary.Uvarint(data[offset:])
			if n <= 0 {
				return
			}
			offset += n

			woonplaatsRef, n := binary.Uvarint(data[offset:])
			if n <= 0 {
				return
			}
			offset += n

			rec := HouseRecord{
				Huisnummer:    uint32(cur),           //nolint:gosec
				StraatRef:     uint32(straatRef),     //nolint:gosec
				WoonplaatsRef: uint32(woonplaatsRef), //nolint:gosec
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Decode strictly decodes a full group, validating every record.
//
// Unlike All, truncated or overflowing data is an error rather than a
// short iteration. The dataset loader runs Decode over every group at
// initialization time so that corruption is caught before the handle is
// published, never at query time.
//
// Parameters:
//   - data: Record payload starting at the group's byte offset
//   - count: Number of records in the group
//
// Returns:
//   - []HouseRecord: All records with absolute house numbers
//   - int: Bytes consumed by the group
//   - error: ErrInvalidRecordGroup wrapped with the failing record index
func (d HouseGroupDecoder) Decode(data []byte, count int) ([]HouseRecord, int, error) {
	records := make([]HouseRecord, 0, count)
	offset := 0
	cur := uint64(0)

	for i := 0; i < count; i++ {
		delta, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return nil, 0, fmt.Errorf("%w: truncated house number at record %d", errs.ErrInvalidRecordGroup, i)
		}
		offset += n

		if i == 0 {
			cur = delta
		} else {
			cur += delta
		}
		if cur > math.MaxUint32 {
			return nil, 0, fmt.Errorf("%w: house number overflow at record %d", errs.ErrInvalidRecordGroup, i)
		}

		straatRef, n := binary.Uvarint(data[offset:])
		if n <= 0 || straatRef > math.MaxUint32 {
			return nil, 0, fmt.Errorf("%w: invalid street reference at record %d", errs.ErrInvalidRecordGroup, i)
		}
		offset += n

		woonplaatsRef, n := binary.Uvarint(data[offset:])
		if n <= 0 || woonplaatsRef > math.MaxUint32 {
			return nil, 0, fmt.Errorf("%w: invalid city reference at record %d", errs.ErrInvalidRecordGroup, i)
		}
		offset += n

		records = append(records, HouseRecord{
			Huisnummer:    uint32(cur),           //nolint:gosec
			StraatRef:     uint32(straatRef),     //nolint:gosec
			WoonplaatsRef: uint32(woonplaatsRef), //nolint:gosec
		})
	}

	return records, offset, nil
}
