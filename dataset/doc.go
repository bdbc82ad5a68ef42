// Package dataset materializes the embedded postcode blob into the
// process-wide, read-only lookup structures and serves queries against
// them.
//
// # Lifecycle
//
// Parse performs the one-time, initialization-heavy work: envelope check,
// decompression, header and checksum validation, FST load, string table
// decode, and a full validation sweep over every record group. It either
// returns a fully validated *Dataset or an error wrapping
// errs.ErrCorruptData — there is no partially usable state.
//
// Handle wraps Parse in a one-shot gate so that racing first callers all
// observe the same completed Dataset (or the same latched error), exactly
// once per process.
//
// After construction a Dataset is immutable; any number of goroutines may
// query it concurrently without locking.
//
// # Building
//
// Builder is the writer side of the format, used by the offline dataset
// generator and by tests: it sorts and groups address rows, interns
// street/city strings, delta-encodes house number groups, builds the FST,
// and wraps the body in the compression envelope.
package dataset
