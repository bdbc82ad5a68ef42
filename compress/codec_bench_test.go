package compress

import (
	"testing"

	"github.com/addrnl/postcode/format"
)

func BenchmarkCodec_Decompress(b *testing.B) {
	data := sampleBody()

	for _, ct := range []format.CompressionType{
		format.CompressionBrotli,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := GetCodec(ct)
		if err != nil {
			b.Fatal(err)
		}

		compressed, err := codec.Compress(data)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := codec.Decompress(compressed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
