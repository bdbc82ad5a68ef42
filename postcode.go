// Package postcode provides embedded, read-only lookup of Dutch addresses
// by postcode and house number.
//
// The complete national address registry is compiled offline into a single
// compressed blob: a finite state transducer over postcodes, delta-encoded
// house number groups, and a deduplicated street/city string table, all
// wrapped in a Brotli envelope. At runtime the blob is decompressed,
// validated, and materialized exactly once per process; after that every
// lookup is a lock-free read against immutable structures.
//
// # Core Features
//
//   - FST-based postcode index with O(len(postcode)) lookups
//   - Delta + varint encoded house number groups
//   - Deduplicated street and city names (string interning)
//   - Compressed envelope (Brotli by default; None, Zstd, S2, LZ4 supported)
//   - One-shot initialization safe under concurrent first use
//   - CRC32C checksum and full structural validation before serving
//
// # Basic Usage
//
// A generated data package registers the embedded blob in its init
// function:
//
//	import "github.com/addrnl/postcode"
//
//	//go:embed postcodes.bin
//	var blob []byte
//
//	func init() {
//	    if err := postcode.Register(blob); err != nil {
//	        panic(err)
//	    }
//	}
//
// Applications then look up addresses directly; the first call pays the
// one-time materialization cost:
//
//	res, err := postcode.Lookup("1011 VX", 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res == nil {
//	    fmt.Println("address not found")
//	} else {
//	    fmt.Printf("%s %d, %s\n", res.Straat, res.Huisnummer, res.Woonplaats)
//	}
//
// Call Init at startup instead to front-load the parse cost and surface a
// corrupt blob before serving traffic.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the dataset
// package, covering the common one-dataset-per-process case. For building
// datasets, loading multiple datasets side by side, or fine-grained
// control, use the dataset package directly.
package postcode

import (
	"github.com/addrnl/postcode/dataset"
)

// Result is a fully resolved address.
type Result = dataset.LookupResult

// Query is one (postcode, house number) pair in a batch lookup.
type Query = dataset.Query

// Metadata describes the loaded dataset.
type Metadata = dataset.Metadata

// defaultHandle is the process-wide dataset gate used by the package-level
// functions.
var defaultHandle dataset.Handle

// Register stores the embedded dataset blob for later materialization.
//
// It is normally called from the data package's init function, before any
// lookup. Registering a second blob, or registering after initialization
// has started, returns errs.ErrAlreadyInitialized.
//
// Parameters:
//   - blob: The embedded dataset blob (envelope + compressed body)
//
// Returns:
//   - error: An error if a blob is already registered.
func Register(blob []byte) error {
	return defaultHandle.Register(blob)
}

// Init materializes the registered dataset eagerly.
//
// Without Init the first lookup triggers materialization on demand. Call
// Init at startup when a corrupt blob should fail the process before it
// serves traffic, or when the decompression cost (tens of milliseconds for
// the national dataset) must not land on a request path.
//
// Returns:
//   - error: errs.ErrNoDataset if no blob was registered, or an error
//     wrapping errs.ErrCorruptData if the blob fails validation. The error
//     is latched; every later call observes the same outcome.
func Init() error {
	return defaultHandle.Init()
}

// Lookup resolves a single address.
//
// The postcode is normalized before the lookup (uppercase, spaces
// stripped), so "1011 vx" and "1011VX" are the same key.
//
// Parameters:
//   - pc: The postcode, in any common spelling
//   - huisnummer: The house number
//
// Returns:
//   - *Result: The resolved address, or nil if the postcode or house
//     number is not in the registry. A miss is not an error.
//   - error: An initialization error (no dataset registered, or the blob
//     failed validation).
//
// Example:
//
//	res, err := postcode.Lookup("2513AA", 8)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res != nil {
//	    fmt.Println(res.Straat, res.Woonplaats)
//	}
func Lookup(pc string, huisnummer int) (*Result, error) {
	ds, err := defaultHandle.Dataset()
	if err != nil {
		return nil, err
	}

	res, ok := ds.Lookup(pc, huisnummer)
	if !ok {
		return nil, nil
	}

	return res, nil
}

// LookupBatch resolves a batch of queries in one call.
//
// The result slice has the same length and order as the input; misses are
// nil entries. Large batches are resolved in parallel across CPU cores.
//
// Parameters:
//   - queries: The (postcode, house number) pairs to resolve
//
// Returns:
//   - []*Result: One entry per query, nil where the address is absent.
//   - error: An initialization error; individual misses never fail the
//     batch.
//
// Example:
//
//	results, err := postcode.LookupBatch([]postcode.Query{
//	    {Postcode: "1011VX", Huisnummer: 2},
//	    {Postcode: "9999ZZ", Huisnummer: 1},
//	})
//	// results[0] is resolved, results[1] is nil
func LookupBatch(queries []Query) ([]*Result, error) {
	ds, err := defaultHandle.Dataset()
	if err != nil {
		return nil, err
	}

	return ds.LookupBatch(queries), nil
}

// Info returns a human-readable diagnostic summary of the loaded dataset:
// format version, build time, postcode count, memory usage, compressed
// size, and content digest.
//
// Returns:
//   - string: The multi-line summary.
//   - error: An initialization error.
func Info() (string, error) {
	ds, err := defaultHandle.Dataset()
	if err != nil {
		return "", err
	}

	return ds.Info(), nil
}

// GetMetadata returns structured metadata about the loaded dataset, the
// machine-readable counterpart of Info.
//
// Returns:
//   - Metadata: The dataset metadata.
//   - error: An initialization error.
func GetMetadata() (Metadata, error) {
	ds, err := defaultHandle.Dataset()
	if err != nil {
		return Metadata{}, err
	}

	return ds.Metadata(), nil
}
