package section

const (
	// Bit masks for the header Options field.
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0)
	ReservedBitsMask = 0x000E // Mask for reserved bits (bits 1-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicDatasetV1Opt is the version 1 magic number for the postcode
	// dataset format, stored in bits 4-15 of the Options field.
	MagicDatasetV1Opt = 0xAD10

	// FormatVersion is the current dataset format version carried in the
	// header's Version byte.
	FormatVersion = 1
)

const (
	// HeaderSize is the fixed header size in bytes.
	HeaderSize = 32

	// FSTOffset is the byte offset where the FST section starts within the
	// decompressed body.
	FSTOffset = HeaderSize

	// EnvelopeSize is the size of the outer envelope preceding the
	// compressed body.
	EnvelopeSize = 4

	// Envelope magic bytes.
	EnvelopeMagic0 = 'P'
	EnvelopeMagic1 = 'C'
)
