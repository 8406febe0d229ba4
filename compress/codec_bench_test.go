package compress

import (
	"fmt"
	"testing"
)

func BenchmarkCodecs(b *testing.B) {
	codecs := []Codec{NewZstdCompressor(), NewS2Compressor(), NewLZ4Compressor()}

	for _, rows := range []int{10, 100, 1000} {
		data := payload(rows)

		for _, c := range codecs {
			packed, err := c.Compress(data)
			if err != nil {
				b.Fatal(err)
			}

			b.Run(fmt.Sprintf("%s/Compress/%drows", c.Type(), rows), func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()
				for b.Loop() {
					_, _ = c.Compress(data)
				}
			})

			b.Run(fmt.Sprintf("%s/Decompress/%drows", c.Type(), rows), func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()
				for b.Loop() {
					_, _ = c.Decompress(packed)
				}
			})
		}
	}
}
