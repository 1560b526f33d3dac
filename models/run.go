package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRun is the operational record of one bulk analysis. Only run
// outcomes are stored; the analyzed listings themselves are never persisted.
type AnalysisRun struct {
	ID                int64      `json:"id" db:"id"`
	Source            string     `json:"source" db:"source"`
	StartedAt         time.Time  `json:"started_at" db:"started_at"`
	FinishedAt        *time.Time `json:"finished_at" db:"finished_at"`
	Status            RunStatus  `json:"status" db:"status"`
	TotalProperties   int        `json:"total_properties" db:"total_properties"`
	GoodDeals         int        `json:"good_deals" db:"good_deals"`
	StressSales       int        `json:"stress_sales" db:"stress_sales"`
	DuplicatesRemoved int        `json:"duplicates_removed" db:"duplicates_removed"`
	RowsSkipped       int        `json:"rows_skipped" db:"rows_skipped"`
	ErrorsCount       int        `json:"errors_count" db:"errors_count"`
	ErrorMessage      string     `json:"error_message" db:"error_message"`
}
