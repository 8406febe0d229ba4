package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

func TestSeries_SetDefinedRows(t *testing.T) {
	reg := MustNewRegistry()

	db := &rwf.LocalElementSetDefDb{Definitions: []rwf.ElementSetDef{{
		SetID: 0,
		Entries: []rwf.ElementSetDefEntry{
			{Name: "Level", DataType: format.UInt},
			{Name: "Price", DataType: format.Real},
		},
	}}}

	s := reg.NewSeries()
	defer s.ReturnToPool()
	require.NoError(t, s.SetDefinitions(&SetDefinitions{Elements: db}))
	require.NoError(t, s.TotalCountHint(3))

	for i := range 3 {
		row := reg.NewElementList()
		require.NoError(t, row.UseSetDefinition(db, 0))
		require.NoError(t, row.AddUInt("Level", uint64(i+1)))
		require.NoError(t, row.AddReal("Price", int64(3990+i), format.ExponentNeg2))
		require.NoError(t, row.Complete())
		require.NoError(t, s.Add(row))
		row.ReturnToPool()
	}
	require.NoError(t, s.Complete())

	out := reg.NewSeries()
	defer out.ReturnToPool()
	require.NoError(t, out.Decode(s.EncodedData(), major, minor, nil, nil))
	assert.Equal(t, format.ElementList, out.ContainerType())
	assert.Equal(t, uint32(3), out.TotalCountHintValue())
	require.Equal(t, 3, out.Size())

	i := 0
	for e := range out.All() {
		el, err := e.ElementList()
		require.NoError(t, err)
		require.Equal(t, format.NoError, el.ErrorCode())

		lvl, ok := el.Find("Level")
		require.True(t, ok)
		u, err := lvl.UInt()
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), u.Value())
		i++
	}

	str := out.String()
	assert.Contains(t, str, `Series totalCountHint="3"`)
	assert.Contains(t, str, `SeriesEntry dataType="ElementList"`)
	assert.Contains(t, str, "SeriesEnd\n")
}

func TestSeries_Builder(t *testing.T) {
	reg := MustNewRegistry()

	s := reg.NewSeries()
	defer s.ReturnToPool()

	require.ErrorIs(t, s.Add(nil), errs.ErrInvalidArgument)

	nd := reg.Acquire(format.NoData)
	defer reg.Release(nd)
	require.NoError(t, s.Add(nd))

	fl := reg.NewFieldList()
	defer fl.ReturnToPool()
	require.ErrorIs(t, s.Add(fl), errs.ErrInvalidOperation)
	require.NoError(t, s.Complete())

	out := reg.NewSeries()
	defer out.ReturnToPool()
	require.NoError(t, out.Decode(s.EncodedData(), major, minor, nil, nil))
	assert.Equal(t, format.NoData, out.ContainerType())
	assert.Equal(t, 1, out.Size())
}

func TestSeries_RedecodeDropsStaleHeader(t *testing.T) {
	reg := MustNewRegistry()

	summary := reg.NewElementList()
	defer summary.ReturnToPool()
	require.NoError(t, summary.AddAscii("Name", "table"))
	require.NoError(t, summary.Complete())

	withSummary := reg.NewSeries()
	defer withSummary.ReturnToPool()
	require.NoError(t, withSummary.SummaryData(summary))
	require.NoError(t, withSummary.Complete())

	empty := reg.NewSeries()
	defer empty.ReturnToPool()
	require.NoError(t, empty.Complete())

	out := reg.NewSeries()
	defer out.ReturnToPool()
	require.NoError(t, out.Decode(withSummary.EncodedData(), major, minor, nil, nil))
	require.NotNil(t, out.Summary())

	require.NoError(t, out.Decode(empty.EncodedData(), major, minor, nil, nil))
	assert.Nil(t, out.Summary())
	assert.True(t, out.IsEmpty())

	require.NoError(t, out.Decode(nil, major, minor, nil, nil))
	assert.Nil(t, out.Summary())
	assert.True(t, out.IsEmpty())
}
