// Package section defines the binary layout of the embedded postcode
// dataset: the outer envelope that names the compression codec, and the
// fixed 32-byte header that describes the decompressed body.
//
// # Physical layout
//
// Embedded blob:
//
//	[envelope: 4 bytes][compressed body]
//
// Decompressed body:
//
//	[header: 32 bytes][FST section][record section][string section]
//
// The header carries a packed flag word (magic number, endianness bit,
// format version), the dataset build time, the postcode count, the byte
// offsets of the record and string sections (the FST section implicitly
// spans from the header's end to the record offset), the string table
// entry count, and a CRC32C checksum over everything after the header.
//
// The layout is self-describing: a parser needs nothing beyond the blob
// itself, and every structural assumption is validated before any section
// is trusted.
package section
