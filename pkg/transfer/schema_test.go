package transfer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/converter"
	"github.com/David-Botos/csv-ingress/pkg/model"
)

func fraudDataset() *model.Dataset {
	return &model.Dataset{
		Columns: []model.Column{
			{Name: "country", SourceName: "pais", Kind: model.KindText},
			{Name: "purchase_date", SourceName: "data_compra", Kind: model.KindText},
			{Name: "purchase_value", SourceName: "valor_compra", Kind: model.KindFloat},
			{Name: "fraud", SourceName: "fraude", Kind: model.KindInteger},
		},
		Rows: []model.Row{
			{model.Text("BR"), model.Text("2020-03-27 00:00:00"), model.Float(5.64), model.Int(0)},
		},
	}
}

func TestSchemaSynthesizerApply(t *testing.T) {
	var out bytes.Buffer
	exec := &recordingExecutor{}
	metrics := NewLoadMetrics(nil)
	s := NewSchemaSynthesizer(converter.NewTypeConverter(zap.NewNop()), &out, zap.NewNop()).
		WithMetrics(metrics)
	ds := fraudDataset()

	got, err := s.Apply(context.Background(), exec, "fraudclass", ds)
	require.NoError(t, err)

	assert.Same(t, ds, got)
	assert.Len(t, got.Rows, 1)
	assert.Equal(t, []string{
		"DROP TABLE IF EXISTS fraudclass CASCADE;",
		"CREATE TABLE fraudclass (country TEXT, purchase_date TIMESTAMP, purchase_value FLOAT, fraud INT);",
	}, exec.statements)
	assert.Equal(t, 1, exec.commitCalls)
	assert.Equal(t, 2, metrics.DDLStatements)
	assert.Equal(t,
		"Executing SQL querries:\n\n"+
			"DROP TABLE IF EXISTS fraudclass CASCADE;\n"+
			"CREATE TABLE fraudclass (country TEXT, purchase_date TIMESTAMP, purchase_value FLOAT, fraud INT);\n",
		out.String())
}

func TestSchemaSynthesizerUnmappedKind(t *testing.T) {
	exec := &recordingExecutor{}
	s := NewSchemaSynthesizer(converter.NewTypeConverter(zap.NewNop()), &bytes.Buffer{}, zap.NewNop())
	ds := fraudDataset()
	ds.Columns[0].Kind = model.KindUnknown

	_, err := s.Apply(context.Background(), exec, "fraudclass", ds)
	require.Error(t, err)

	assert.Equal(t, ErrorCategorySchema, CategoryOf(err))
	assert.ErrorIs(t, err, converter.ErrUnmappedKind)
	assert.Empty(t, exec.statements)
	assert.Equal(t, 0, exec.commitCalls)
}

func TestSchemaSynthesizerDDLFailure(t *testing.T) {
	boom := errors.New("permission denied for schema public")
	exec := &recordingExecutor{failOnStatement: 2, failErr: boom}
	s := NewSchemaSynthesizer(converter.NewTypeConverter(zap.NewNop()), &bytes.Buffer{}, zap.NewNop())

	_, err := s.Apply(context.Background(), exec, "fraudclass", fraudDataset())
	require.Error(t, err)

	assert.Equal(t, ErrorCategoryStatement, CategoryOf(err))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, exec.commitCalls)
}
