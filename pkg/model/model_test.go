package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueKinds(t *testing.T) {
	assert.True(t, Missing().IsMissing())
	assert.True(t, Value{}.IsMissing())
	assert.True(t, Float(math.NaN()).IsMissing())
	assert.Nil(t, Float(math.NaN()).Interface())

	assert.Equal(t, KindInteger, Int(3).Kind())
	assert.Equal(t, KindFloat, Float(0.25).Kind())
	assert.Equal(t, KindText, Text("").Kind())
	assert.Equal(t, KindUnknown, Missing().Kind())

	assert.Equal(t, 3.0, Int(3).Float64())
	assert.True(t, math.IsNaN(Missing().Float64()))
	assert.Equal(t, "0.1", Float(0.1).String())
	assert.Equal(t, "-7", Int(-7).String())
}

func TestDatasetLookups(t *testing.T) {
	ds := &Dataset{
		Columns: []Column{
			{Name: "purchase_date", SourceName: "data_compra", Kind: KindText},
			{Name: "score_1", SourceName: "score_1", Kind: KindFloat},
		},
		Rows: []Row{
			{Text("2020-01-01"), Missing()},
			{Missing(), Float(1)},
			{Text("2020-01-02"), Float(2)},
		},
	}

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"purchase_date", "score_1"}, ds.ColumnNames())
	assert.Equal(t, []int64{2, 2}, ds.PresentCounts())

	col := ds.GetColumnBySource(" DATA_COMPRA ")
	if assert.NotNil(t, col) {
		assert.Equal(t, "purchase_date", col.Name)
	}
	assert.Nil(t, ds.GetColumnBySource("purchase_date"))
}
