// Package encoding implements the value codecs of the postcode dataset
// format: the delta-encoded house number groups and the deduplicated
// street/city string table.
//
// # House number groups
//
// Each postcode owns one group of records sorted by house number. The
// first house number is stored as an absolute value, every subsequent one
// as the difference from its predecessor, all as unsigned varints. Dutch
// house numbers along one postcode are short ascending runs with small
// gaps, so most records cost one byte for the number plus one or two bytes
// for the street/city references.
//
// # String table
//
// Street and city names repeat massively across the dataset (every record
// in a postcode shares a street, and city names span thousands of
// postcodes). They are stored once in a table and referenced by index from
// the house number records.
//
// Encoders use pooled buffers and are not safe for concurrent use;
// decoders are stateless and safe to share.
package encoding
