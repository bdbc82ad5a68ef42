// Package index implements the postcode index: a finite state transducer
// mapping each postcode to the location of its house number group in the
// record payload.
//
// The index is built once from the sorted postcode key set and is
// read-only afterwards. Lookup cost is O(len(postcode)) — six transitions
// for a well-formed Dutch postcode — and a key absent from the set fails
// at its first non-matching transition without touching the rest of the
// structure. Malformed keys are just absent keys; the transducer rejects
// them the same way.
//
// The FST value packs the group's byte offset (relative to the record
// section) into the upper 48 bits and the record count into the lower 16.
package index

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/blevesearch/vellum"

	"github.com/addrnl/postcode/errs"
)

const (
	// countBits is the width of the record count in a packed FST value.
	countBits = 16
	// countMask extracts the record count.
	countMask = 1<<countBits - 1
	// maxOffset is the largest encodable group offset.
	maxOffset = 1<<(64-countBits) - 1
)

// PackEntry packs a record group location into an FST value.
func PackEntry(offset int, count int) (uint64, error) {
	if offset < 0 || uint64(offset) > maxOffset {
		return 0, fmt.Errorf("group offset %d out of range", offset)
	}
	if count <= 0 || count > countMask {
		return 0, fmt.Errorf("record count %d out of range", count)
	}

	return uint64(offset)<<countBits | uint64(count), nil
}

// UnpackEntry unpacks an FST value into a record group location.
func UnpackEntry(val uint64) (offset int, count int) {
	return int(val >> countBits), int(val & countMask) //nolint:gosec
}

// PostcodeIndex is the read-only FST over postcodes.
type PostcodeIndex struct {
	fst  *vellum.FST
	size int
}

// Load deserializes a pre-built FST section.
//
// Returns ErrInvalidIndex if the bytes are not a valid transducer.
func Load(data []byte) (*PostcodeIndex, error) {
	fst, err := vellum.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidIndex, err)
	}

	return &PostcodeIndex{fst: fst, size: len(data)}, nil
}

// Lookup resolves a postcode to its record group location.
//
// The postcode must already be normalized (uppercase, no spaces). Any
// string absent from the key set — including malformed input — returns
// ok=false in bounded time.
func (ix *PostcodeIndex) Lookup(postcode string) (offset int, count int, ok bool) {
	val, exists, err := ix.fst.Get([]byte(postcode))
	if err != nil || !exists {
		return 0, 0, false
	}

	offset, count = UnpackEntry(val)

	return offset, count, true
}

// Len returns the number of postcodes in the index.
func (ix *PostcodeIndex) Len() int {
	return ix.fst.Len()
}

// Size returns the index size in bytes.
func (ix *PostcodeIndex) Size() int {
	return ix.size
}

// Walk visits every (postcode, offset, count) entry in key order.
//
// The dataset loader uses it for the construction-time validation sweep.
// The key slice is only valid within the callback. Returning an error from
// fn aborts the walk.
func (ix *PostcodeIndex) Walk(fn func(postcode []byte, offset int, count int) error) error {
	itr, err := ix.fst.Iterator(nil, nil)
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidIndex, err)
	}

	for err == nil {
		key, val := itr.Current()
		offset, count := UnpackEntry(val)
		if walkErr := fn(key, offset, count); walkErr != nil {
			return walkErr
		}

		err = itr.Next()
	}

	if !errors.Is(err, vellum.ErrIteratorDone) {
		return fmt.Errorf("%w: %v", errs.ErrInvalidIndex, err)
	}

	return nil
}

// Builder constructs the FST section from postcodes inserted in ascending
// key order.
type Builder struct {
	buf     bytes.Buffer
	builder *vellum.Builder
	count   int
}

// NewBuilder creates a Builder for an in-memory FST section.
func NewBuilder() (*Builder, error) {
	b := &Builder{}

	builder, err := vellum.New(&b.buf, nil)
	if err != nil {
		return nil, err
	}
	b.builder = builder

	return b, nil
}

// Insert adds a postcode with its record group location. Keys must arrive
// in strictly ascending lexicographic order.
func (b *Builder) Insert(postcode string, offset int, count int) error {
	val, err := PackEntry(offset, count)
	if err != nil {
		return err
	}

	if err := b.builder.Insert([]byte(postcode), val); err != nil {
		return err
	}
	b.count++

	return nil
}

// Count returns the number of postcodes inserted so far.
func (b *Builder) Count() int {
	return b.count
}

// Finish finalizes the transducer and returns the FST section bytes.
func (b *Builder) Finish() ([]byte, error) {
	if err := b.builder.Close(); err != nil {
		return nil, err
	}

	return b.buf.Bytes(), nil
}

// MaxCount is the largest record count a packed entry can hold, exported
// for the dataset builder's group-size validation.
const MaxCount = countMask
