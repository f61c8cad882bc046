package transfer

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/connector"
	"github.com/David-Botos/csv-ingress/pkg/converter"
	"github.com/David-Botos/csv-ingress/pkg/model"
)

// Executor runs statements on the write session
type Executor interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Commit(ctx context.Context) error
}

// SchemaSynthesizer (re)creates the target table from the dataset's columns
type SchemaSynthesizer struct {
	converter *converter.TypeConverter
	out       io.Writer
	logger    *zap.Logger
	metrics   *LoadMetrics
}

// NewSchemaSynthesizer creates a SchemaSynthesizer that echoes DDL to out
func NewSchemaSynthesizer(conv *converter.TypeConverter, out io.Writer, logger *zap.Logger) *SchemaSynthesizer {
	return &SchemaSynthesizer{
		converter: conv,
		out:       out,
		logger:    logger,
	}
}

// WithMetrics records executed DDL in metrics
func (s *SchemaSynthesizer) WithMetrics(metrics *LoadMetrics) *SchemaSynthesizer {
	s.metrics = metrics
	return s
}

// Apply drops and recreates table with one column per dataset column, then
// commits. The dataset is returned unchanged apart from resolved SQL types.
func (s *SchemaSynthesizer) Apply(ctx context.Context, exec Executor, table string, ds *model.Dataset) (*model.Dataset, error) {
	if err := s.converter.ResolveColumns(ds); err != nil {
		return nil, NewLoadError(ErrorCategorySchema, StageSchema, err)
	}

	statements, err := s.converter.TableDDL(table, ds)
	if err != nil {
		return nil, NewLoadError(ErrorCategorySchema, StageSchema, err)
	}

	fmt.Fprint(s.out, "Executing SQL querries:\n\n")

	for _, stmt := range statements {
		fmt.Fprintln(s.out, stmt)

		start := time.Now()
		if _, err := exec.Exec(ctx, stmt); err != nil {
			s.logger.Error("DDL statement failed",
				zap.String("statement", stmt),
				zap.String("sqlstate", connector.SQLState(err)),
				zap.Error(err))
			return nil, NewLoadError(storeErrorCategory(err), StageDDL, err)
		}
		if s.metrics != nil {
			s.metrics.RecordDDL()
			s.metrics.RecordStage(StageDDL, time.Since(start))
		}
	}

	if err := exec.Commit(ctx); err != nil {
		return nil, NewLoadError(storeErrorCategory(err), StageCommit, err)
	}

	s.logger.Info("Created table",
		zap.String("table", table),
		zap.Strings("columns", ds.ColumnNames()))

	return ds, nil
}
