package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"nz_propper/models"
)

// RunStore keeps the operational history of analysis runs in a local SQLite
// file. Run outcomes and their logs only; analyzed listings are never
// persisted here.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &RunStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

func (s *RunStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id INTEGER PRIMARY KEY,
		source TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		total_properties INTEGER DEFAULT 0,
		good_deals INTEGER DEFAULT 0,
		stress_sales INTEGER DEFAULT 0,
		duplicates_removed INTEGER DEFAULT 0,
		rows_skipped INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0,
		error_message TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS analysis_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		FOREIGN KEY (run_id) REFERENCES analysis_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON analysis_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON analysis_logs(run_id, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateRun opens a run record in the running state and returns it with its
// assigned ID.
func (s *RunStore) CreateRun(ctx context.Context, source string) (*models.AnalysisRun, error) {
	run := &models.AnalysisRun{
		Source:    source,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (source, started_at, status)
		VALUES (?, ?, ?)`,
		run.Source, run.StartedAt, run.Status)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	run.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// UpdateRun writes the run's final state and counters.
func (s *RunStore) UpdateRun(ctx context.Context, run *models.AnalysisRun) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE analysis_runs SET finished_at = ?, status = ?, total_properties = ?,
			good_deals = ?, stress_sales = ?, duplicates_removed = ?,
			rows_skipped = ?, errors_count = ?, error_message = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.TotalProperties,
		run.GoodDeals, run.StressSales, run.DuplicatesRemoved,
		run.RowsSkipped, run.ErrorsCount, run.ErrorMessage, run.ID)
	if err != nil {
		return fmt.Errorf("update run %d: %w", run.ID, err)
	}
	return nil
}

// Log appends one log line to a run.
func (s *RunStore) Log(ctx context.Context, runID int64, level models.LogLevel, message string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_logs (run_id, timestamp, level, message)
		VALUES (?, ?, ?, ?)`,
		runID, time.Now(), level, message)
	return err
}

// RecentRuns lists the latest runs, newest first.
func (s *RunStore) RecentRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, started_at, finished_at, status, total_properties,
			good_deals, stress_sales, duplicates_removed, rows_skipped,
			errors_count, error_message
		FROM analysis_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var run models.AnalysisRun
		var finished sql.NullTime
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.Source, &run.StartedAt, &finished,
			&run.Status, &run.TotalProperties, &run.GoodDeals, &run.StressSales,
			&run.DuplicatesRemoved, &run.RowsSkipped, &run.ErrorsCount, &errMsg); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		run.ErrorMessage = errMsg.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunLogs returns the log lines for one run in chronological order.
func (s *RunStore) RunLogs(ctx context.Context, runID int64) ([]models.AnalysisLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, timestamp, level, message
		FROM analysis_logs WHERE run_id = ? ORDER BY timestamp`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AnalysisLog
	for rows.Next() {
		var l models.AnalysisLog
		if err := rows.Scan(&l.ID, &l.RunID, &l.Timestamp, &l.Level, &l.Message); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
