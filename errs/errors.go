// Package errs defines the sentinel errors shared across the postcode
// dataset packages.
//
// Every structural fault in the embedded dataset wraps ErrCorruptData, so
// callers only ever need a single errors.Is check to distinguish "the
// embedded data is broken" from ordinary usage errors. "Address not found"
// is never an error; lookups report it as an absent result.
package errs

import (
	"errors"
	"fmt"
)

// ErrCorruptData is the root sentinel for any structural fault detected in
// the embedded dataset: failed decompression, bad magic, checksum mismatch,
// out-of-range references. It is fatal at initialization time; a process
// must not serve lookups from a dataset that failed validation.
var ErrCorruptData = errors.New("corrupt postcode dataset")

// Structural faults. All wrap ErrCorruptData.
var (
	ErrInvalidEnvelope    = fmt.Errorf("%w: invalid envelope", ErrCorruptData)
	ErrInvalidHeaderSize  = fmt.Errorf("%w: invalid header size", ErrCorruptData)
	ErrInvalidHeaderFlags = fmt.Errorf("%w: invalid header flags", ErrCorruptData)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported dataset version", ErrCorruptData)
	ErrChecksumMismatch   = fmt.Errorf("%w: checksum mismatch", ErrCorruptData)
	ErrInvalidIndex       = fmt.Errorf("%w: invalid postcode index", ErrCorruptData)
	ErrInvalidStringTable = fmt.Errorf("%w: invalid string table", ErrCorruptData)
	ErrInvalidStringRef   = fmt.Errorf("%w: string reference out of range", ErrCorruptData)
	ErrInvalidRecordGroup = fmt.Errorf("%w: invalid house number group", ErrCorruptData)
	ErrRecordOutOfOrder   = fmt.Errorf("%w: house numbers out of order", ErrCorruptData)
)

// Lifecycle errors.
var (
	// ErrNoDataset is returned when a lookup or Init runs before any
	// dataset blob has been registered.
	ErrNoDataset = errors.New("no postcode dataset registered")

	// ErrAlreadyInitialized is returned when Register is called after the
	// dataset handle has already been materialized.
	ErrAlreadyInitialized = errors.New("dataset already initialized")
)

// Builder-side validation errors. These surface from dataset.Builder when
// the input rows cannot produce a valid dataset; they never occur on the
// read path.
var (
	ErrInvalidPostcode   = errors.New("invalid postcode format")
	ErrInvalidHuisnummer = errors.New("invalid house number")
	ErrGroupTooLarge     = errors.New("house number group exceeds maximum size")
	ErrStringTooLong     = errors.New("string exceeds maximum length")
	ErrNoRows            = errors.New("no address rows added")
)
