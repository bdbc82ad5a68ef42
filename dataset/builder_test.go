package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/addrnl/postcode/errs"
	"github.com/addrnl/postcode/format"
)

func TestBuilder_Add_InvalidInput(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	tests := []struct {
		name       string
		postcode   string
		huisnummer int
		straat     string
		wantErr    error
	}{
		{"empty postcode", "", 1, "Nieuwmarkt", errs.ErrInvalidPostcode},
		{"too short", "1011V", 1, "Nieuwmarkt", errs.ErrInvalidPostcode},
		{"too long", "1011VXX", 1, "Nieuwmarkt", errs.ErrInvalidPostcode},
		{"leading zero", "0011VX", 1, "Nieuwmarkt", errs.ErrInvalidPostcode},
		{"letters first", "AB11VX", 1, "Nieuwmarkt", errs.ErrInvalidPostcode},
		{"digits last", "101122", 1, "Nieuwmarkt", errs.ErrInvalidPostcode},
		{"negative huisnummer", "1011VX", -1, "Nieuwmarkt", errs.ErrInvalidHuisnummer},
		{"street too long", "1011VX", 1, string(make([]byte, 300)), errs.ErrStringTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Add(tt.postcode, tt.huisnummer, tt.straat, "Amsterdam")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.Equal(t, 0, b.Len())
}

func TestBuilder_Add_NormalizesPostcode(t *testing.T) {
	b, err := NewBuilder(WithCompression(format.CompressionNone))
	require.NoError(t, err)

	// All three spellings are the same key.
	require.NoError(t, b.Add("1011 vx", 2, "Nieuwmarkt", "Amsterdam"))
	require.NoError(t, b.Add("1011vx", 2, "Nieuwmarkt", "Amsterdam"))
	require.NoError(t, b.Add("1011VX", 2, "Nieuwmarkt", "Amsterdam"))

	blob, err := b.Finish()
	require.NoError(t, err)

	ds, err := Parse(blob)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Metadata().PostcodeCount)
}

func TestBuilder_Finish_Empty(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	_, err = b.Finish()
	require.ErrorIs(t, err, errs.ErrNoRows)
}

func TestBuilder_Finish_Deterministic(t *testing.T) {
	buildTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	build := func(order []int) []byte {
		b, err := NewBuilder(
			WithCompression(format.CompressionNone),
			WithBuildTime(buildTime),
		)
		require.NoError(t, err)

		rows := []struct {
			pc   string
			nr   int
			st   string
			city string
		}{
			{"1011VX", 2, "Nieuwmarkt", "Amsterdam"},
			{"1011VX", 4, "Nieuwmarkt", "Amsterdam"},
			{"2513AA", 8, "Binnenhof", "Den Haag"},
		}
		for _, i := range order {
			r := rows[i]
			require.NoError(t, b.Add(r.pc, r.nr, r.st, r.city))
		}

		blob, err := b.Finish()
		require.NoError(t, err)

		return blob
	}

	// Note: the string table order still depends on Add order; only
	// same-order builds are byte-identical.
	require.Equal(t, build([]int{0, 1, 2}), build([]int{0, 1, 2}))

	// Row order within a postcode does not change lookup results.
	dsA, err := Parse(build([]int{0, 1, 2}))
	require.NoError(t, err)
	dsB, err := Parse(build([]int{2, 1, 0}))
	require.NoError(t, err)

	resA, okA := dsA.Lookup("1011VX", 4)
	resB, okB := dsB.Lookup("1011VX", 4)
	require.True(t, okA)
	require.True(t, okB)
	require.Equal(t, resA, resB)
}

func TestBuilder_Finish_CollapsesDuplicateRows(t *testing.T) {
	b, err := NewBuilder(WithCompression(format.CompressionNone))
	require.NoError(t, err)

	require.NoError(t, b.Add("1011VX", 2, "Nieuwmarkt", "Amsterdam"))
	require.NoError(t, b.Add("1011VX", 2, "Nieuwmarkt", "Amsterdam"))
	// Same house number, different street: both survive, first wins.
	require.NoError(t, b.Add("1011VX", 2, "Achterburgwal", "Amsterdam"))

	blob, err := b.Finish()
	require.NoError(t, err)

	ds, err := Parse(blob)
	require.NoError(t, err)

	res, ok := ds.Lookup("1011VX", 2)
	require.True(t, ok)
	require.Equal(t, "Nieuwmarkt", res.Straat)
}

func TestBuilder_WithCompression_Unknown(t *testing.T) {
	_, err := NewBuilder(WithCompression(format.CompressionType(0x7f)))
	require.Error(t, err)
}

func TestValidPostcode(t *testing.T) {
	valid := []string{"1011VX", "9999ZZ", "2513AA", "1000AA"}
	for _, pc := range valid {
		require.True(t, ValidPostcode(pc), "postcode %q", pc)
	}

	invalid := []string{"", "1011vx", "0111AA", "1011V1", "A011VX", "1011 VX", "10111VX"}
	for _, pc := range invalid {
		require.False(t, ValidPostcode(pc), "postcode %q", pc)
	}
}
