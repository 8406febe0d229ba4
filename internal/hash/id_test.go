package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		acronym string
		want    uint64
	}{
		{"", 0xef46db3751d8e999},
		{"test", 0x4fdcca5ddb678139},
	}

	for _, tt := range tests {
		t.Run(tt.acronym, func(t *testing.T) {
			require.Equal(t, tt.want, ID(tt.acronym))
		})
	}

	require.NotEqual(t, ID("BID"), ID("ASK"))
	require.Equal(t, ID("BID"), ID("BID"))
}

func TestChecksum(t *testing.T) {
	require.Equal(t, uint64(0xef46db3751d8e999), Checksum(nil))
	require.Equal(t, ID("test"), Checksum([]byte("test")))
}
