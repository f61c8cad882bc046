package transfer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/model"
)

// Querier reads single values from the destination; *sqlx.DB satisfies it
type Querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// ColumnDiscrepancy is a column whose non-NULL count differs from the dataset
type ColumnDiscrepancy struct {
	ColumnName string
	Expected   int64
	Actual     int64
}

// VerificationReport contains the results of a table verification
type VerificationReport struct {
	Table               string
	VerificationTime    time.Time
	RowCountMatches     bool
	ExpectedRowCount    int64
	TargetRowCount      int64
	ColumnDiscrepancies []ColumnDiscrepancy
	Duration            time.Duration
}

// Passed reports whether every check matched
func (r *VerificationReport) Passed() bool {
	return r.RowCountMatches && len(r.ColumnDiscrepancies) == 0
}

// Verifier compares a loaded table against its dataset
type Verifier struct {
	db      Querier
	logger  *zap.Logger
	timeout time.Duration
}

// NewVerifier creates a new verifier
func NewVerifier(db Querier, logger *zap.Logger) *Verifier {
	return &Verifier{
		db:      db,
		logger:  logger,
		timeout: time.Minute * 5, // Default 5-minute timeout
	}
}

// WithTimeout sets a custom timeout for verification operations
func (v *Verifier) WithTimeout(timeout time.Duration) *Verifier {
	v.timeout = timeout
	return v
}

// VerifyRowCount checks the table holds exactly expected rows
func (v *Verifier) VerifyRowCount(ctx context.Context, table string, expected int64) (bool, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	var count int64
	if err := v.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
		return false, 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}

	matches := count == expected
	if matches {
		v.logger.Info("Row count verification successful",
			zap.String("table", table),
			zap.Int64("count", count))
	} else {
		v.logger.Warn("Row count mismatch",
			zap.String("table", table),
			zap.Int64("expected", expected),
			zap.Int64("actual", count),
			zap.Int64("difference", expected-count))
	}

	return matches, count, nil
}

// VerifyColumnCounts checks, per column, that non-NULL values in the table
// match the non-missing values of the dataset
func (v *Verifier) VerifyColumnCounts(ctx context.Context, table string, ds *model.Dataset) ([]ColumnDiscrepancy, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	expected := ds.PresentCounts()
	discrepancies := make([]ColumnDiscrepancy, 0)

	for i, col := range ds.Columns {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(%s) FROM %s", col.Name, table)
		if err := v.db.GetContext(ctx, &count, query); err != nil {
			return nil, fmt.Errorf("failed to count column %s: %w", col.Name, err)
		}

		if count != expected[i] {
			v.logger.Warn("Column count mismatch",
				zap.String("table", table),
				zap.String("column", col.Name),
				zap.Int64("expected", expected[i]),
				zap.Int64("actual", count))
			discrepancies = append(discrepancies, ColumnDiscrepancy{
				ColumnName: col.Name,
				Expected:   expected[i],
				Actual:     count,
			})
		}
	}

	return discrepancies, nil
}

// GenerateVerificationReport runs every check against table
func (v *Verifier) GenerateVerificationReport(ctx context.Context, table string, ds *model.Dataset) (*VerificationReport, error) {
	v.logger.Info("Generating verification report", zap.String("table", table))

	startTime := time.Now()
	report := &VerificationReport{
		Table:            table,
		VerificationTime: startTime,
		ExpectedRowCount: int64(ds.Len()),
	}

	matches, count, err := v.VerifyRowCount(ctx, table, report.ExpectedRowCount)
	if err != nil {
		return nil, err
	}
	report.RowCountMatches = matches
	report.TargetRowCount = count

	discrepancies, err := v.VerifyColumnCounts(ctx, table, ds)
	if err != nil {
		return nil, err
	}
	report.ColumnDiscrepancies = discrepancies

	report.Duration = time.Since(startTime)

	v.logger.Info("Verification report completed",
		zap.String("table", table),
		zap.Duration("duration", report.Duration),
		zap.Bool("rowCountMatch", report.RowCountMatches),
		zap.Int("columnDiscrepancies", len(report.ColumnDiscrepancies)))

	return report, nil
}
