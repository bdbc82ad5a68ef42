package dataset

import (
	"cmp"
	"fmt"
	"hash/crc32"
	"math"
	"slices"
	"time"

	"github.com/addrnl/postcode/compress"
	"github.com/addrnl/postcode/encoding"
	"github.com/addrnl/postcode/errs"
	"github.com/addrnl/postcode/format"
	"github.com/addrnl/postcode/index"
	"github.com/addrnl/postcode/section"
)

type builderConfig struct {
	compression format.CompressionType
	buildTime   time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*builderConfig) error

// WithCompression selects the envelope codec. The default is Brotli, the
// production choice for embedded blobs; tests typically use
// CompressionNone.
func WithCompression(compression format.CompressionType) BuilderOption {
	return func(cfg *builderConfig) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return err
		}
		cfg.compression = compression

		return nil
	}
}

// WithBuildTime sets the build timestamp recorded in the header. The
// default is the wall clock at NewBuilder time.
func WithBuildTime(buildTime time.Time) BuilderOption {
	return func(cfg *builderConfig) error {
		cfg.buildTime = buildTime

		return nil
	}
}

type row struct {
	postcode      string
	huisnummer    uint32
	straatRef     uint32
	woonplaatsRef uint32
}

// Builder assembles a dataset blob from address rows.
//
// Rows may arrive in any order; Finish sorts them by (postcode, house
// number) — the sort pass the delta encoding requires — groups them per
// postcode, and emits the complete compressed blob. Street and city
// strings are interned on Add, so duplicates cost one table entry no
// matter how many rows share them.
//
// A Builder is single-use: after Finish it must be discarded.
type Builder struct {
	cfg      builderConfig
	rows     []row
	interner *encoding.StringInterner
}

// NewBuilder creates a Builder.
//
// Returns an error if an option is invalid.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	cfg := builderConfig{
		compression: format.CompressionBrotli,
		buildTime:   time.Now(),
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Builder{
		cfg:      cfg,
		interner: encoding.NewStringInterner(),
	}, nil
}

// Add appends one address row.
//
// The postcode is normalized before validation, so "1011 vx" is accepted
// and stored as "1011VX". Validation covers shape only (4 digits not
// starting with 0, then 2 uppercase letters); whether the postcode exists
// is the registry's concern, not the builder's.
//
// Returns ErrInvalidPostcode, ErrInvalidHuisnummer, or ErrStringTooLong on
// invalid input.
func (b *Builder) Add(postcode string, huisnummer int, straat, woonplaats string) error {
	pc := NormalizePostcode(postcode)
	if !ValidPostcode(pc) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidPostcode, postcode)
	}

	if huisnummer < 0 || huisnummer > math.MaxUint32 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidHuisnummer, huisnummer)
	}

	if len(straat) > encoding.MaxStringLength {
		return fmt.Errorf("%w: street %q", errs.ErrStringTooLong, straat)
	}
	if len(woonplaats) > encoding.MaxStringLength {
		return fmt.Errorf("%w: city %q", errs.ErrStringTooLong, woonplaats)
	}

	b.rows = append(b.rows, row{
		postcode:      pc,
		huisnummer:    uint32(huisnummer),
		straatRef:     b.interner.Ref(straat),
		woonplaatsRef: b.interner.Ref(woonplaats),
	})

	return nil
}

// Len returns the number of rows added so far.
func (b *Builder) Len() int {
	return len(b.rows)
}

// Finish sorts, encodes, compresses, and returns the complete blob.
//
// Fully identical rows are collapsed; rows sharing a house number but
// differing in street or city are kept in insertion order (first one wins
// at lookup time).
func (b *Builder) Finish() ([]byte, error) {
	if len(b.rows) == 0 {
		return nil, errs.ErrNoRows
	}

	// Stable sort: duplicate house numbers keep insertion order, which
	// fixes which record a lookup returns.
	slices.SortStableFunc(b.rows, func(a, bb row) int {
		if c := cmp.Compare(a.postcode, bb.postcode); c != 0 {
			return c
		}

		return cmp.Compare(a.huisnummer, bb.huisnummer)
	})

	b.rows = slices.Compact(b.rows)

	recordEncoder := encoding.NewHouseGroupEncoder()
	defer recordEncoder.Finish()

	indexBuilder, err := index.NewBuilder()
	if err != nil {
		return nil, err
	}

	group := make([]encoding.HouseRecord, 0, 64)
	for start := 0; start < len(b.rows); {
		pc := b.rows[start].postcode

		end := start
		group = group[:0]
		for end < len(b.rows) && b.rows[end].postcode == pc {
			group = append(group, encoding.HouseRecord{
				Huisnummer:    b.rows[end].huisnummer,
				StraatRef:     b.rows[end].straatRef,
				WoonplaatsRef: b.rows[end].woonplaatsRef,
			})
			end++
		}

		if len(group) > index.MaxCount {
			return nil, fmt.Errorf("%w: postcode %s has %d records (max %d)",
				errs.ErrGroupTooLarge, pc, len(group), index.MaxCount)
		}

		offset, err := recordEncoder.WriteGroup(group)
		if err != nil {
			return nil, fmt.Errorf("postcode %s: %w", pc, err)
		}

		if err := indexBuilder.Insert(pc, offset, len(group)); err != nil {
			return nil, fmt.Errorf("postcode %s: %w", pc, err)
		}

		start = end
	}

	fstSection, err := indexBuilder.Finish()
	if err != nil {
		return nil, err
	}

	stringSection, err := encoding.EncodeStringTable(b.interner.Table())
	if err != nil {
		return nil, err
	}

	recordSection := recordEncoder.Bytes()

	bodySize := section.HeaderSize + len(fstSection) + len(recordSection) + len(stringSection)
	if bodySize > math.MaxUint32 {
		return nil, fmt.Errorf("dataset body of %d bytes exceeds format limit", bodySize)
	}

	hdr := section.NewHeader(b.cfg.buildTime)
	hdr.PostcodeCount = uint32(indexBuilder.Count())
	hdr.RecordOffset = uint32(section.HeaderSize + len(fstSection))
	hdr.StringOffset = hdr.RecordOffset + uint32(len(recordSection))
	hdr.StringCount = uint32(b.interner.Len())

	body := make([]byte, 0, bodySize)
	body = append(body, make([]byte, section.HeaderSize)...)
	body = append(body, fstSection...)
	body = append(body, recordSection...)
	body = append(body, stringSection...)

	hdr.Checksum = crc32.Checksum(body[section.HeaderSize:], castagnoli)
	copy(body[:section.HeaderSize], hdr.Bytes())

	codec, err := compress.GetCodec(b.cfg.compression)
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(body)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, 0, section.EnvelopeSize+len(compressed))
	blob = append(blob, section.NewEnvelope(b.cfg.compression).Bytes()...)
	blob = append(blob, compressed...)

	return blob, nil
}

// ValidPostcode reports whether pc has the Dutch postcode shape: four
// digits not starting with 0, followed by two uppercase letters. Input is
// expected to be normalized already.
func ValidPostcode(pc string) bool {
	if len(pc) != 6 {
		return false
	}

	if pc[0] < '1' || pc[0] > '9' {
		return false
	}

	for i := 1; i < 4; i++ {
		if pc[i] < '0' || pc[i] > '9' {
			return false
		}
	}

	for i := 4; i < 6; i++ {
		if pc[i] < 'A' || pc[i] > 'Z' {
			return false
		}
	}

	return true
}
