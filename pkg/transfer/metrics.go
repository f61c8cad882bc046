package transfer

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pipeline stage names
const (
	StageLoad    = "load"
	StageSchema  = "schema"
	StageConnect = "connect"
	StageDDL     = "ddl"
	StageInsert  = "insert"
	StageCommit  = "commit"
	StageVerify  = "verify"
)

// LoadMetrics tracks metrics for a load
type LoadMetrics struct {
	mu             sync.Mutex
	logger         *zap.Logger
	StartTime      time.Time
	EndTime        time.Time
	RowsRead       int64
	RowsInserted   int64
	DDLStatements  int
	Checkpoints    int
	Statements     int64
	WireCommits    int64
	ErrorCounts    map[ErrorCategory]int
	StageDurations map[string]time.Duration
}

// NewLoadMetrics creates a new LoadMetrics instance
func NewLoadMetrics(logger *zap.Logger) *LoadMetrics {
	return &LoadMetrics{
		StartTime:      time.Now(),
		ErrorCounts:    make(map[ErrorCategory]int),
		StageDurations: make(map[string]time.Duration),
		logger:         logger,
	}
}

// RecordStage adds time spent in a stage
func (lm *LoadMetrics) RecordStage(stage string, d time.Duration) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.StageDurations[stage] += d
}

// RecordRowsRead records the dataset size
func (lm *LoadMetrics) RecordRowsRead(n int64) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.RowsRead = n
}

// RecordInsert counts one executed INSERT
func (lm *LoadMetrics) RecordInsert() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.RowsInserted++
}

// RecordDDL counts one executed DDL statement
func (lm *LoadMetrics) RecordDDL() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.DDLStatements++
}

// RecordCheckpoint counts one periodic commit
func (lm *LoadMetrics) RecordCheckpoint() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.Checkpoints++
}

// RecordSession copies the session's executed statement and server commit counts
func (lm *LoadMetrics) RecordSession(statements, commits int64) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.Statements = statements
	lm.WireCommits = commits
}

// RecordError counts a fatal error by category
func (lm *LoadMetrics) RecordError(category ErrorCategory) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.ErrorCounts[category]++
}

// Complete finalizes metrics collection
func (lm *LoadMetrics) Complete() {
	lm.mu.Lock()
	lm.EndTime = time.Now()
	lm.mu.Unlock()

	if lm.logger != nil {
		lm.logger.Info("Load metrics",
			zap.Duration("duration", lm.Duration()),
			zap.Int64("rowsRead", lm.RowsRead),
			zap.Int64("rowsInserted", lm.RowsInserted),
			zap.Int("checkpoints", lm.Checkpoints),
			zap.Int64("wireCommits", lm.WireCommits),
			zap.Float64("rowsPerSecond", lm.CalculateThroughput()))
	}
}

// Duration returns the total duration of the load
func (lm *LoadMetrics) Duration() time.Duration {
	if lm.EndTime.IsZero() {
		return time.Since(lm.StartTime)
	}
	return lm.EndTime.Sub(lm.StartTime)
}

// CalculateThroughput returns inserted rows per second
func (lm *LoadMetrics) CalculateThroughput() float64 {
	seconds := lm.Duration().Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(lm.RowsInserted) / seconds
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// GenerateMetricsReport creates a metrics report
func (lm *LoadMetrics) GenerateMetricsReport() string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	report := fmt.Sprintf(`
Load Metrics Report
===================
Duration:                %s
Start Time:              %s
End Time:                %s

Data Summary
------------
Rows Read:               %d
Rows Inserted:           %d (%.1f%%)
DDL Statements:          %d
Checkpoint Commits:      %d
Statements Executed:     %d
Server Commits:          %d
Average Throughput:      %.2f rows/sec
`,
		formatDuration(lm.Duration()),
		lm.StartTime.Format(time.RFC3339),
		lm.EndTime.Format(time.RFC3339),

		lm.RowsRead,
		lm.RowsInserted, getPercentage(float64(lm.RowsInserted), float64(lm.RowsRead)),
		lm.DDLStatements,
		lm.Checkpoints,
		lm.Statements,
		lm.WireCommits,
		lm.CalculateThroughput(),
	)

	if len(lm.StageDurations) > 0 {
		report += "\nStage Durations\n---------------\n"
		stages := make([]string, 0, len(lm.StageDurations))
		for stage := range lm.StageDurations {
			stages = append(stages, stage)
		}
		sort.Strings(stages)
		for _, stage := range stages {
			report += fmt.Sprintf("- %s: %s\n", stage, formatDuration(lm.StageDurations[stage]))
		}
	}

	if len(lm.ErrorCounts) > 0 {
		report += "\nErrors\n------\n"
		for category := ErrorCategoryInput; category <= ErrorCategoryVerification; category++ {
			if count := lm.ErrorCounts[category]; count > 0 {
				report += fmt.Sprintf("- %s: %d\n", category, count)
			}
		}
	}

	return report
}

// getPercentage safely calculates a percentage, avoiding division by zero
func getPercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}
