package dataset

import (
	"fmt"
	"hash/crc32"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/addrnl/postcode/compress"
	"github.com/addrnl/postcode/encoding"
	"github.com/addrnl/postcode/errs"
	"github.com/addrnl/postcode/format"
	"github.com/addrnl/postcode/index"
	"github.com/addrnl/postcode/internal/hash"
	"github.com/addrnl/postcode/section"
)

// batchParallelThreshold is the batch size above which LookupBatch fans
// queries out across GOMAXPROCS goroutines. Below it the fan-out overhead
// outweighs the ~1µs cost of a single lookup.
const batchParallelThreshold = 256

// castagnoli is the CRC32C table used by the body checksum.
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// LookupResult is a fully resolved address.
type LookupResult struct {
	Postcode   string `json:"postcode"`
	Straat     string `json:"straat"`
	Huisnummer int    `json:"huisnummer"`
	Woonplaats string `json:"woonplaats"`
}

// Query is one (postcode, house number) pair in a batch lookup.
type Query struct {
	Postcode   string
	Huisnummer int
}

// Metadata describes a materialized dataset for diagnostics.
type Metadata struct {
	// Version is the dataset format version.
	Version uint8
	// BuildTime is when the dataset was generated.
	BuildTime time.Time
	// Compression is the envelope codec the blob was compressed with.
	Compression format.CompressionType
	// PostcodeCount is the number of unique postcodes.
	PostcodeCount int
	// StringCount is the number of distinct street/city strings.
	StringCount int
	// CompressedSize is the embedded blob size in bytes.
	CompressedSize int
	// DecompressedSize is the raw body size in bytes.
	DecompressedSize int
	// Digest is the xxHash64 of the decompressed body, identifying the
	// dataset build.
	Digest uint64
}

// Dataset is the fully materialized, immutable lookup structure.
//
// All fields are written once by Parse and never mutated, which is what
// permits lock-free concurrent reads.
type Dataset struct {
	index   *index.PostcodeIndex
	records []byte
	strings []string
	decoder encoding.HouseGroupDecoder
	meta    Metadata
}

// Parse materializes a Dataset from an embedded blob.
//
// The full pipeline runs exactly once per process (via Handle): envelope →
// codec → decompress → header → checksum → FST load → string table →
// validation sweep over every record group. Any failure wraps
// errs.ErrCorruptData and no Dataset is returned; a blob that fails
// validation must never serve queries.
//
// Expected cost for the national dataset: tens of milliseconds, dominated
// by Brotli decompression and the validation sweep.
func Parse(blob []byte) (*Dataset, error) {
	env, compressed, err := section.Parse(blob)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(env.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidEnvelope, err)
	}

	body, err := codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptData, err)
	}

	if len(body) < section.HeaderSize {
		return nil, fmt.Errorf("%w: body is %d bytes", errs.ErrInvalidHeaderSize, len(body))
	}

	var hdr section.Header
	if err := hdr.Parse(body[:section.HeaderSize]); err != nil {
		return nil, err
	}

	if crc := crc32.Checksum(body[section.HeaderSize:], castagnoli); crc != hdr.Checksum {
		return nil, fmt.Errorf("%w: got 0x%08x, header says 0x%08x", errs.ErrChecksumMismatch, crc, hdr.Checksum)
	}

	if int64(hdr.StringOffset) > int64(len(body)) {
		return nil, fmt.Errorf("%w: string section at %d beyond body of %d bytes",
			errs.ErrInvalidHeaderFlags, hdr.StringOffset, len(body))
	}

	fstSection := body[section.FSTOffset:hdr.RecordOffset]
	recordSection := body[hdr.RecordOffset:hdr.StringOffset]
	stringSection := body[hdr.StringOffset:]

	ix, err := index.Load(fstSection)
	if err != nil {
		return nil, err
	}
	if ix.Len() != int(hdr.PostcodeCount) {
		return nil, fmt.Errorf("%w: index has %d postcodes, header says %d",
			errs.ErrInvalidIndex, ix.Len(), hdr.PostcodeCount)
	}

	table, err := encoding.DecodeStringTable(stringSection)
	if err != nil {
		return nil, err
	}
	if len(table) != int(hdr.StringCount) {
		return nil, fmt.Errorf("%w: table has %d entries, header says %d",
			errs.ErrInvalidStringTable, len(table), hdr.StringCount)
	}

	d := &Dataset{
		index:   ix,
		records: recordSection,
		strings: table,
		decoder: encoding.NewHouseGroupDecoder(),
		meta: Metadata{
			Version:          hdr.Flag.Version,
			BuildTime:        hdr.BuildTimeAsTime(),
			Compression:      env.Compression,
			PostcodeCount:    int(hdr.PostcodeCount),
			StringCount:      len(table),
			CompressedSize:   len(blob),
			DecompressedSize: len(body),
			Digest:           hash.Digest(body),
		},
	}

	if err := d.validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// validate strictly decodes every record group once, so out-of-range
// offsets, truncated groups, and dangling string references are caught at
// construction time and can never surface during a query.
func (d *Dataset) validate() error {
	return d.index.Walk(func(postcode []byte, offset, count int) error {
		if offset < 0 || offset >= len(d.records) {
			return fmt.Errorf("%w: postcode %s group at offset %d, record section is %d bytes",
				errs.ErrInvalidRecordGroup, postcode, offset, len(d.records))
		}

		records, _, err := d.decoder.Decode(d.records[offset:], count)
		if err != nil {
			return fmt.Errorf("postcode %s: %w", postcode, err)
		}

		for _, rec := range records {
			if int(rec.StraatRef) >= len(d.strings) || int(rec.WoonplaatsRef) >= len(d.strings) {
				return fmt.Errorf("%w: postcode %s references (%d, %d), table has %d entries",
					errs.ErrInvalidStringRef, postcode, rec.StraatRef, rec.WoonplaatsRef, len(d.strings))
			}
		}

		return nil
	})
}

// Lookup resolves one address.
//
// The postcode is normalized first (uppercase, spaces stripped), so
// "1011vx", "1011 VX" and "1011VX" are the same key. Missing postcode and
// missing house number both return (nil, false); lookups never fail with
// an error on a validated dataset.
func (d *Dataset) Lookup(postcode string, huisnummer int) (*LookupResult, bool) {
	if huisnummer < 0 || huisnummer > math.MaxUint32 {
		return nil, false
	}

	pc := NormalizePostcode(postcode)

	offset, count, ok := d.index.Lookup(pc)
	if !ok {
		return nil, false
	}

	rec, ok := d.decoder.Find(d.records[offset:], count, uint32(huisnummer))
	if !ok {
		return nil, false
	}

	return &LookupResult{
		Postcode:   pc,
		Straat:     d.strings[rec.StraatRef],
		Huisnummer: huisnummer,
		Woonplaats: d.strings[rec.WoonplaatsRef],
	}, true
}

// LookupBatch resolves a batch of queries.
//
// The result slice has the same length and order as the input; misses are
// nil entries and queries are fully independent. Large batches are fanned
// out across GOMAXPROCS goroutines — purely an optimization, each worker
// writes only its own index range.
func (d *Dataset) LookupBatch(queries []Query) []*LookupResult {
	results := make([]*LookupResult, len(queries))

	if len(queries) < batchParallelThreshold {
		for i, q := range queries {
			if res, ok := d.Lookup(q.Postcode, q.Huisnummer); ok {
				results[i] = res
			}
		}

		return results
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(queries) + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < len(queries); start += chunk {
		end := min(start+chunk, len(queries))

		g.Go(func() error {
			for i := start; i < end; i++ {
				if res, ok := d.Lookup(queries[i].Postcode, queries[i].Huisnummer); ok {
					results[i] = res
				}
			}

			return nil
		})
	}

	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()

	return results
}

// Metadata returns the dataset's diagnostic metadata.
func (d *Dataset) Metadata() Metadata {
	return d.meta
}

// MemoryUsage returns the approximate resident size in bytes of the
// materialized structures (FST, record payload, string table).
func (d *Dataset) MemoryUsage() int {
	size := d.index.Size() + len(d.records)
	for _, s := range d.strings {
		size += len(s)
	}

	return size
}

// Info returns a human-readable diagnostic summary of the loaded dataset.
func (d *Dataset) Info() string {
	const mb = 1_000_000.0

	return fmt.Sprintf(
		"postcode dataset v%d\n"+
			"Build time: %s\n"+
			"Postcodes: %d\n"+
			"Memory usage: %.2f MB\n"+
			"Compressed size: %.2f MB (%s)\n"+
			"Digest: %016x",
		d.meta.Version,
		d.meta.BuildTime.Format(time.RFC3339),
		d.meta.PostcodeCount,
		float64(d.MemoryUsage())/mb,
		float64(d.meta.CompressedSize)/mb,
		d.meta.Compression,
		d.meta.Digest,
	)
}

// NormalizePostcode uppercases ASCII letters and strips spaces and tabs.
// Dutch postcodes are commonly written "1011 vx"; the index stores them as
// "1011VX".
func NormalizePostcode(s string) string {
	normalized := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			continue
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		}
		normalized = append(normalized, c)
	}

	return string(normalized)
}
