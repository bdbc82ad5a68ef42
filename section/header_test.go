package section

import (
	"testing"
	"time"

	"github.com/addrnl/postcode/errs"
	"github.com/addrnl/postcode/format"
	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTrip(t *testing.T) {
	buildTime := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	h := NewHeader(buildTime)
	h.PostcodeCount = 451_000
	h.RecordOffset = 1_200_000
	h.StringOffset = 9_800_000
	h.StringCount = 320_000
	h.Checksum = 0xDEADBEEF

	data := h.Bytes()
	require.Len(t, data, HeaderSize)

	var parsed Header
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, *h, parsed)
	require.Equal(t, buildTime, parsed.BuildTimeAsTime())
	require.True(t, parsed.Flag.IsLittleEndian())
}

func TestHeader_RoundTrip_BigEndian(t *testing.T) {
	h := NewHeader(time.Now())
	h.Flag.WithBigEndian()
	h.RecordOffset = HeaderSize + 10
	h.StringOffset = HeaderSize + 20

	var parsed Header
	require.NoError(t, parsed.Parse(h.Bytes()))
	require.False(t, parsed.Flag.IsLittleEndian())
	require.Equal(t, h.RecordOffset, parsed.RecordOffset)
}

func TestHeader_Parse_InvalidSize(t *testing.T) {
	var h Header
	require.ErrorIs(t, h.Parse(make([]byte, HeaderSize-1)), errs.ErrInvalidHeaderSize)
	require.ErrorIs(t, h.Parse(make([]byte, HeaderSize+1)), errs.ErrInvalidHeaderSize)
	require.ErrorIs(t, h.Parse(nil), errs.ErrInvalidHeaderSize)
}

func TestHeader_Parse_BadMagic(t *testing.T) {
	h := NewHeader(time.Now())
	h.RecordOffset = HeaderSize
	h.StringOffset = HeaderSize
	data := h.Bytes()
	data[1] ^= 0xF0 // clobber the magic bits

	var parsed Header
	err := parsed.Parse(data)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	require.ErrorIs(t, err, errs.ErrCorruptData)
}

func TestHeader_Parse_UnsupportedVersion(t *testing.T) {
	h := NewHeader(time.Now())
	h.RecordOffset = HeaderSize
	h.StringOffset = HeaderSize
	data := h.Bytes()
	data[2] = FormatVersion + 1

	var parsed Header
	require.ErrorIs(t, parsed.Parse(data), errs.ErrUnsupportedVersion)
}

func TestHeader_Parse_OffsetsOutOfOrder(t *testing.T) {
	h := NewHeader(time.Now())
	h.RecordOffset = 100
	h.StringOffset = 50

	var parsed Header
	require.ErrorIs(t, parsed.Parse(h.Bytes()), errs.ErrInvalidHeaderFlags)
}

func TestFlag_Validate_ReservedBits(t *testing.T) {
	f := NewFlag()
	require.NoError(t, f.Validate())

	f.Options |= 0x0004
	require.ErrorIs(t, f.Validate(), errs.ErrInvalidHeaderFlags)

	f = NewFlag()
	f.Reserved = 1
	require.ErrorIs(t, f.Validate(), errs.ErrInvalidHeaderFlags)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	body := []byte{1, 2, 3, 4, 5}

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionBrotli,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		blob := append(NewEnvelope(ct).Bytes(), body...)

		env, payload, err := Parse(blob)
		require.NoError(t, err)
		require.Equal(t, ct, env.Compression)
		require.Equal(t, body, payload)
	}
}

func TestEnvelope_Parse_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", nil},
		{"short", []byte{EnvelopeMagic0, EnvelopeMagic1}},
		{"bad magic", []byte{'X', 'Y', byte(format.CompressionBrotli), 0}},
		{"unknown compression", []byte{EnvelopeMagic0, EnvelopeMagic1, 0xEE, 0}},
		{"reserved byte set", []byte{EnvelopeMagic0, EnvelopeMagic1, byte(format.CompressionNone), 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.blob)
			require.ErrorIs(t, err, errs.ErrInvalidEnvelope)
			require.ErrorIs(t, err, errs.ErrCorruptData)
		})
	}
}
