package converter

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/David-Botos/csv-ingress/pkg/model"
)

func testDataset() *model.Dataset {
	return &model.Dataset{
		Columns: []model.Column{
			{Name: "country", SourceName: "pais", Kind: model.KindText},
			{Name: "purchase_date", SourceName: "data_compra", Kind: model.KindText},
			{Name: "amount", SourceName: "valor_compra", Kind: model.KindFloat},
			{Name: "fraud", SourceName: "fraude", Kind: model.KindInteger},
		},
	}
}

func TestMapKind(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	tests := []struct {
		kind model.Kind
		want string
	}{
		{model.KindInteger, "INT"},
		{model.KindFloat, "FLOAT"},
		{model.KindText, "TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := c.MapKind(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := c.MapKind(model.KindUnknown)
	assert.ErrorIs(t, err, ErrUnmappedKind)
	_, err = c.MapKind(model.Kind(42))
	assert.ErrorIs(t, err, ErrUnmappedKind)
}

func TestResolveColumns(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())
	ds := testDataset()

	require.NoError(t, c.ResolveColumns(ds))

	got := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		got[i] = col.SQLType
	}
	assert.Equal(t, []string{"TEXT", "TIMESTAMP", "FLOAT", "INT"}, got)
}

func TestResolveColumnsPurchaseDateAnyKind(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())

	for _, kind := range []model.Kind{model.KindInteger, model.KindFloat, model.KindText} {
		ds := &model.Dataset{Columns: []model.Column{
			{Name: "purchase_date", SourceName: "data_compra", Kind: kind},
		}}
		require.NoError(t, c.ResolveColumns(ds))
		assert.Equal(t, TimestampType, ds.Columns[0].SQLType, kind.String())
	}
}

func TestResolveColumnsOverrideUsesSourceName(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())
	ds := &model.Dataset{Columns: []model.Column{
		{Name: "data_compra", SourceName: "other", Kind: model.KindText},
	}}

	require.NoError(t, c.ResolveColumns(ds))
	assert.Equal(t, "TEXT", ds.Columns[0].SQLType)
}

func TestResolveColumnsUnmappedLeavesDatasetUntouched(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())
	ds := testDataset()
	ds.Columns = append(ds.Columns, model.Column{Name: "weird", SourceName: "weird", Kind: model.KindUnknown})

	err := c.ResolveColumns(ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmappedKind))
	for _, col := range ds.Columns {
		assert.Empty(t, col.SQLType)
	}
}

func TestTableDDL(t *testing.T) {
	c := NewTypeConverter(zap.NewNop())
	ds := testDataset()

	stmts, err := c.TableDDL("fraudclass", ds)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, "DROP TABLE IF EXISTS fraudclass CASCADE;", stmts[0])
	assert.Equal(t,
		"CREATE TABLE fraudclass (country TEXT, purchase_date TIMESTAMP, amount FLOAT, fraud INT);",
		stmts[1])
}

func TestTableDDLCustomConfig(t *testing.T) {
	c := NewTypeConverterWithConfig(zap.NewNop(), TypeConverterConfig{
		TypeMap: map[model.Kind]string{
			model.KindInteger: "BIGINT",
			model.KindFloat:   "DOUBLE PRECISION",
			model.KindText:    "VARCHAR",
		},
	})
	ds := testDataset()

	stmts, err := c.TableDDL("t", ds)
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE t (country VARCHAR, purchase_date VARCHAR, amount DOUBLE PRECISION, fraud BIGINT);",
		stmts[1])
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name  string
		kind  model.Kind
		value model.Value
		want  string
	}{
		{"missing", model.KindFloat, model.Missing(), "NULL"},
		{"nan", model.KindFloat, model.Float(math.NaN()), "NULL"},
		{"integer", model.KindInteger, model.Int(-42), "-42"},
		{"float", model.KindFloat, model.Float(0.1), "0.1"},
		{"whole float", model.KindFloat, model.Float(3), "3"},
		{"positive infinity", model.KindFloat, model.Float(math.Inf(1)), "'Infinity'"},
		{"negative infinity", model.KindFloat, model.Float(math.Inf(-1)), "'-Infinity'"},
		{"text", model.KindText, model.Text("BR"), "'BR'"},
		{"quoted text", model.KindText, model.Text("O'Brien"), "'O''Brien'"},
		{"empty text", model.KindText, model.Text(""), "''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			render, err := LiteralFuncFor(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(tt.value))
		})
	}
}

func TestResolveColumnsWarnsOnAbsentTimestampColumn(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := NewTypeConverterWithConfig(zap.New(core), TypeConverterConfig{
		TimestampColumns: []string{"data_compra", "data_entrega"},
	})

	require.NoError(t, c.ResolveColumns(testDataset()))

	entries := logs.FilterMessage("Timestamp column not in dataset").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "data_entrega", entries[0].ContextMap()["column"])
}

func TestLiteralFuncFor(t *testing.T) {
	f, err := LiteralFuncFor(model.KindText)
	require.NoError(t, err)
	assert.Equal(t, "'it''s'", f(model.Text("it's")))
	assert.Equal(t, "NULL", f(model.Missing()))

	f, err = LiteralFuncFor(model.KindInteger)
	require.NoError(t, err)
	assert.Equal(t, "7", f(model.Int(7)))

	_, err = LiteralFuncFor(model.KindUnknown)
	assert.ErrorIs(t, err, ErrUnmappedKind)
}
