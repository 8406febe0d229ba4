package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/omm/dictionary"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

const (
	major = rwf.MajorVersion
	minor = rwf.MinorVersion
)

func testDictionary(t *testing.T) *dictionary.Dictionary {
	t.Helper()

	d, err := dictionary.LoadFile("../dictionary/testdata/fields.yaml")
	require.NoError(t, err)

	return d
}

func newTestRegistry(t *testing.T, opts ...RegistryOption) (*Registry, *dictionary.Dictionary) {
	t.Helper()

	dict := testDictionary(t)
	reg, err := NewRegistry(append([]RegistryOption{WithDictionary(dict)}, opts...)...)
	require.NoError(t, err)

	return reg, dict
}

// buildQuote returns a completed FieldList with a BID/ASK quote.
func buildQuote(t *testing.T, reg *Registry, bid, ask int64) *FieldList {
	t.Helper()

	fl := reg.NewFieldList()
	require.NoError(t, fl.AddReal(22, bid, format.ExponentNeg2))
	require.NoError(t, fl.AddReal(25, ask, format.ExponentNeg2))
	require.NoError(t, fl.Complete())

	return fl
}
