package transfer

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/connector"
	"github.com/David-Botos/csv-ingress/pkg/model"
	"github.com/David-Botos/csv-ingress/pkg/statement"
)

// DefaultCommitFraction is the share of the dataset inserted between commits
const DefaultCommitFraction = 0.005

// CommitInterval returns how many rows are inserted between commits.
// It is never less than 1.
func CommitInterval(total int, fraction float64) int {
	interval := int(math.Floor(fraction * float64(total)))
	if interval < 1 {
		return 1
	}
	return interval
}

// InsertStats summarizes one insertion pass
type InsertStats struct {
	Rows        int64
	Interval    int
	Checkpoints int
}

// RowInserter writes dataset rows one statement at a time
type RowInserter struct {
	builder  statement.Builder
	fraction float64
	out      io.Writer
	logger   *zap.Logger
	metrics  *LoadMetrics
}

// NewRowInserter creates a RowInserter that reports progress to out
func NewRowInserter(builder statement.Builder, out io.Writer, logger *zap.Logger) *RowInserter {
	return &RowInserter{
		builder:  builder,
		fraction: DefaultCommitFraction,
		out:      out,
		logger:   logger,
	}
}

// WithCommitFraction sets the commit fraction
func (r *RowInserter) WithCommitFraction(fraction float64) *RowInserter {
	r.fraction = fraction
	return r
}

// WithMetrics records inserts and checkpoints in metrics
func (r *RowInserter) WithMetrics(metrics *LoadMetrics) *RowInserter {
	r.metrics = metrics
	return r
}

// Insert executes one INSERT per row in dataset order, committing every
// CommitInterval rows and once more after the last row. A failed statement
// stops the load; rows committed before it stay in the table.
func (r *RowInserter) Insert(ctx context.Context, exec Executor, table string, ds *model.Dataset) (InsertStats, error) {
	total := ds.Len()
	stats := InsertStats{Interval: CommitInterval(total, r.fraction)}
	start := time.Now()

	r.logger.Info("Inserting rows",
		zap.String("table", table),
		zap.Int("rows", total),
		zap.Int("commitInterval", stats.Interval))

	fmt.Fprint(r.out, "\nInserting values to Database: \n")

	for i, row := range ds.Rows {
		rowNum := i + 1
		if err := ctx.Err(); err != nil {
			return stats, NewLoadError(ErrorCategoryStatement, StageInsert, err).WithRow(rowNum)
		}

		query, args, err := r.builder.Insert(table, ds.Columns, row)
		if err != nil {
			return stats, NewLoadError(ErrorCategoryStatement, StageInsert, err).WithRow(rowNum)
		}

		if _, err := exec.Exec(ctx, query, args...); err != nil {
			r.logger.Error("Insert failed",
				zap.Int("row", rowNum),
				zap.Int("checkpoints", stats.Checkpoints),
				zap.String("sqlstate", connector.SQLState(err)),
				zap.Bool("dataError", connector.IsDataError(err)),
				zap.Error(err))
			return stats, NewLoadError(storeErrorCategory(err), StageInsert, err).WithRow(rowNum)
		}
		stats.Rows++
		if r.metrics != nil {
			r.metrics.RecordInsert()
		}

		if rowNum%stats.Interval == 0 {
			if err := exec.Commit(ctx); err != nil {
				return stats, NewLoadError(storeErrorCategory(err), StageCommit, err).WithRow(rowNum)
			}
			stats.Checkpoints++
			if r.metrics != nil {
				r.metrics.RecordCheckpoint()
			}
			fmt.Fprintf(r.out, "\r%.1f%%", 100*float64(rowNum)/float64(total))
		}
	}

	if err := exec.Commit(ctx); err != nil {
		return stats, NewLoadError(storeErrorCategory(err), StageCommit, err)
	}
	fmt.Fprint(r.out, "\nData insertion complete.\n")

	if r.metrics != nil {
		r.metrics.RecordStage(StageInsert, time.Since(start))
	}
	r.logger.Info("Inserted rows",
		zap.String("table", table),
		zap.Int64("rows", stats.Rows),
		zap.Int("checkpoints", stats.Checkpoints),
		zap.Duration("duration", time.Since(start)))

	return stats, nil
}
