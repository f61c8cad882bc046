package transfer

import (
	"time"

	"github.com/google/uuid"
)

// LoadJob represents one run of the loader
type LoadJob struct {
	ID        string    // Unique job identifier
	CSVPath   string    // Source file
	Table     string    // Target table name
	CreatedAt time.Time // Job creation timestamp
}

// NewLoadJob creates a new load job
func NewLoadJob(csvPath, table string) LoadJob {
	return LoadJob{
		ID:        uuid.New().String(),
		CSVPath:   csvPath,
		Table:     table,
		CreatedAt: time.Now(),
	}
}

// LoadResult represents the result of a load
type LoadResult struct {
	JobID        string
	Table        string
	Success      bool
	RowsRead     int64
	RowsInserted int64
	Interval     int
	Checkpoints  int
	Statements   int64 // Statements executed, DDL included
	WireCommits  int64 // Commits that reached the server
	Warnings     []string
	Verification *VerificationReport
	Err          error
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

// NewLoadResult initializes a result for a job
func NewLoadResult(job LoadJob) *LoadResult {
	return &LoadResult{
		JobID:     job.ID,
		Table:     job.Table,
		StartTime: time.Now(),
		Warnings:  make([]string, 0),
	}
}

// Complete marks the load as complete and calculates duration
func (r *LoadResult) Complete(err error) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Err = err
	r.Success = err == nil
}

// AddWarning adds a warning to the result
func (r *LoadResult) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}
