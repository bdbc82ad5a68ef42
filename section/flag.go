package section

import (
	"github.com/addrnl/postcode/endian"
	"github.com/addrnl/postcode/errs"
)

// Flag is the packed field at the start of the dataset header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 1-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are the magic number identifying the dataset format:
	//   - 0xAD10 (0b1010_1101_0001_0000): postcode dataset format v1
	Options uint16

	// Version is the dataset format version.
	Version uint8

	// Reserved must be zero.
	Reserved uint8
}

// NewFlag creates a Flag with default settings: little-endian, current
// format version.
func NewFlag() Flag {
	flag := Flag{
		Options: MagicDatasetV1Opt,
		Version: FormatVersion,
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the body fields are little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Validate checks magic number, reserved bits, and format version.
func (f Flag) Validate() error {
	if f.GetMagicNumber() != MagicDatasetV1Opt {
		return errs.ErrInvalidHeaderFlags
	}

	if f.Options&ReservedBitsMask != 0 || f.Reserved != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if f.Version != FormatVersion {
		return errs.ErrUnsupportedVersion
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
