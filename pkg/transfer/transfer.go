package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/connector"
	"github.com/David-Botos/csv-ingress/pkg/converter"
	"github.com/David-Botos/csv-ingress/pkg/loader"
	"github.com/David-Botos/csv-ingress/pkg/model"
	"github.com/David-Botos/csv-ingress/pkg/statement"
)

// ErrVerificationFailed is returned when the loaded table does not match the dataset
var ErrVerificationFailed = errors.New("verification failed")

// ConnectFunc opens the destination
type ConnectFunc func(ctx context.Context) (connector.DatabaseConnector, error)

// Options configures a LoadManager
type Options struct {
	Mapping        loader.Mapping
	Builder        statement.Builder
	CommitFraction float64
	Verify         bool
	// Per-query deadline for verification; zero keeps the verifier default
	VerifyTimeout  time.Duration
	// Console output for DDL echo and progress
	Output         io.Writer
}

// LoadManager orchestrates one load: read, type, connect, create, insert
type LoadManager struct {
	loader        *loader.Loader
	typeConverter *converter.TypeConverter
	synthesizer   *SchemaSynthesizer
	inserter      *RowInserter
	mapping       loader.Mapping
	verify        bool
	verifyTimeout time.Duration
	metrics       *LoadMetrics
	logger        *zap.Logger
}

// NewLoadManager creates a new load manager
func NewLoadManager(
	csvLoader *loader.Loader,
	typeConverter *converter.TypeConverter,
	opts Options,
	logger *zap.Logger,
) *LoadManager {
	if opts.Builder == nil {
		opts.Builder = statement.NewLiteralBuilder()
	}
	if opts.CommitFraction <= 0 {
		opts.CommitFraction = DefaultCommitFraction
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}

	metrics := NewLoadMetrics(logger)

	return &LoadManager{
		loader:        csvLoader,
		typeConverter: typeConverter,
		synthesizer: NewSchemaSynthesizer(typeConverter, opts.Output, logger.Named("schema")).
			WithMetrics(metrics),
		inserter: NewRowInserter(opts.Builder, opts.Output, logger.Named("inserter")).
			WithCommitFraction(opts.CommitFraction).
			WithMetrics(metrics),
		mapping:       opts.Mapping,
		verify:        opts.Verify,
		verifyTimeout: opts.VerifyTimeout,
		metrics:       metrics,
		logger:        logger,
	}
}

// GenerateReport returns a human readable metrics report
func (lm *LoadManager) GenerateReport() string {
	return lm.metrics.GenerateMetricsReport()
}

// Prepare loads the CSV and resolves column types without touching the database
func (lm *LoadManager) Prepare(ctx context.Context, job LoadJob) (*model.Dataset, error) {
	start := time.Now()
	ds, err := lm.loader.Load(ctx, job.CSVPath, lm.mapping)
	if err != nil {
		return nil, NewLoadError(ErrorCategoryInput, StageLoad, err)
	}
	lm.metrics.RecordStage(StageLoad, time.Since(start))
	lm.metrics.RecordRowsRead(int64(ds.Len()))

	if err := lm.typeConverter.ResolveColumns(ds); err != nil {
		return nil, NewLoadError(ErrorCategorySchema, StageSchema, err)
	}

	return ds, nil
}

// DDL returns the DROP and CREATE statements for a prepared dataset
func (lm *LoadManager) DDL(table string, ds *model.Dataset) ([]string, error) {
	return lm.typeConverter.TableDDL(table, ds)
}

// Run executes the whole load for job
func (lm *LoadManager) Run(ctx context.Context, job LoadJob, connect ConnectFunc) (*LoadResult, error) {
	result := NewLoadResult(job)
	logger := lm.logger.With(zap.String("jobID", job.ID), zap.String("table", job.Table))

	err := lm.run(ctx, job, connect, result, logger)
	if err != nil {
		lm.metrics.RecordError(CategoryOf(err))
		logger.Error("Load failed",
			zap.String("category", CategoryOf(err).String()),
			zap.Int64("rowsInserted", result.RowsInserted),
			zap.String("sqlstate", connector.SQLState(err)),
			zap.Error(err))
	}

	result.Complete(err)
	lm.metrics.Complete()

	if err == nil {
		logger.Info("Load completed",
			zap.Int64("rows", result.RowsInserted),
			zap.Int("checkpoints", result.Checkpoints),
			zap.Duration("duration", result.Duration))
	}
	return result, err
}

func (lm *LoadManager) run(
	ctx context.Context,
	job LoadJob,
	connect ConnectFunc,
	result *LoadResult,
	logger *zap.Logger,
) (err error) {
	ds, err := lm.Prepare(ctx, job)
	if err != nil {
		return err
	}
	result.RowsRead = int64(ds.Len())
	if ds.Len() > 0 {
		for i, count := range ds.PresentCounts() {
			if count == 0 {
				result.AddWarning(fmt.Sprintf("column %s has no values, loaded as NULL", ds.Columns[i].Name))
			}
		}
	}

	start := time.Now()
	conn, err := connect(ctx)
	if err != nil {
		return NewLoadError(ErrorCategoryConnection, StageConnect, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("Failed to close connection", zap.Error(closeErr))
		}
	}()
	lm.metrics.RecordStage(StageConnect, time.Since(start))

	session := conn.Session()
	defer func() {
		result.Statements = session.Statements()
		result.WireCommits = session.Commits()
		lm.metrics.RecordSession(result.Statements, result.WireCommits)
		if closeErr := session.Close(); closeErr != nil && err == nil {
			err = NewLoadError(ErrorCategoryStatement, StageCommit, closeErr)
		}
	}()

	if _, err := lm.synthesizer.Apply(ctx, session, job.Table, ds); err != nil {
		return err
	}

	stats, err := lm.inserter.Insert(ctx, session, job.Table, ds)
	result.RowsInserted = stats.Rows
	result.Interval = stats.Interval
	result.Checkpoints = stats.Checkpoints
	if err != nil {
		return err
	}

	if lm.verify {
		start := time.Now()
		verifier := NewVerifier(conn.DB(), logger.Named("verifier"))
		if lm.verifyTimeout > 0 {
			verifier.WithTimeout(lm.verifyTimeout)
		}
		report, err := verifier.GenerateVerificationReport(ctx, job.Table, ds)
		lm.metrics.RecordStage(StageVerify, time.Since(start))
		if err != nil {
			return NewLoadError(ErrorCategoryVerification, StageVerify, err)
		}
		result.Verification = report
		if !report.Passed() {
			return NewLoadError(ErrorCategoryVerification, StageVerify,
				fmt.Errorf("%w: %d rows in table, %d expected, %d column mismatches",
					ErrVerificationFailed, report.TargetRowCount, report.ExpectedRowCount,
					len(report.ColumnDiscrepancies)))
		}
	}

	return nil
}
