package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunStatus is the terminal state of a run
type RunStatus string

const (
	RunStatusInProgress   RunStatus = "in_progress"
	RunStatusCompleted    RunStatus = "completed"
	RunStatusNoResults    RunStatus = "aborted_no_results"
	RunStatusNoLinks      RunStatus = "aborted_no_links"
	RunStatusLoginAborted RunStatus = "aborted_login"
	RunStatusInterrupted  RunStatus = "interrupted"
	RunStatusFailed       RunStatus = "failed"
)

// ErrRunNotFound is returned for unknown run IDs
var ErrRunNotFound = errors.New("run not found")

// Run is the persisted summary of one automation run
type Run struct {
	ID           int64      `json:"id"`
	SearchQuery  string     `json:"search_query"`
	SkipPercent  int        `json:"skip_percent"`
	MaxVideos    int        `json:"max_videos"`
	Status       RunStatus  `json:"status"`
	Total        int        `json:"total"`
	Watched      int        `json:"watched"`
	Skipped      int        `json:"skipped"`
	Failed       int        `json:"failed"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// DailyStats aggregates finished runs per calendar day
type DailyStats struct {
	Date          string `json:"date"`
	Runs          int    `json:"runs"`
	VideosWatched int    `json:"videos_watched"`
	VideosSkipped int    `json:"videos_skipped"`
	VideosFailed  int    `json:"videos_failed"`
}

// StartRun inserts run as in progress and fills its ID
func (s *Store) StartRun(run *Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.Status = RunStatusInProgress

	res, err := s.db.Exec(`
		INSERT INTO runs (search_query, skip_percent, max_videos, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.SearchQuery, run.SkipPercent, run.MaxVideos, run.Status, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}
	run.ID = id
	return nil
}

// FinishRun stores the final status and counters and folds them into
// the day's totals.
func (s *Store) FinishRun(run *Run) error {
	if run.ID == 0 {
		return fmt.Errorf("finish run: %w", ErrRunNotFound)
	}
	if run.FinishedAt == nil {
		now := time.Now()
		run.FinishedAt = &now
	}

	return s.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE runs SET
				status = ?, total = ?, watched = ?, skipped = ?, failed = ?,
				error_message = ?, finished_at = ?
			WHERE id = ?
		`, run.Status, run.Total, run.Watched, run.Skipped, run.Failed,
			nullString(run.ErrorMessage), *run.FinishedAt, run.ID)
		if err != nil {
			return fmt.Errorf("failed to finish run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("finish run %d: %w", run.ID, ErrRunNotFound)
		}

		_, err = tx.Exec(`
			INSERT INTO daily_stats (date, runs, videos_watched, videos_skipped, videos_failed)
			VALUES (?, 1, ?, ?, ?)
			ON CONFLICT(date) DO UPDATE SET
				runs = runs + 1,
				videos_watched = videos_watched + excluded.videos_watched,
				videos_skipped = videos_skipped + excluded.videos_skipped,
				videos_failed = videos_failed + excluded.videos_failed
		`, dateOf(run.StartedAt), run.Watched, run.Skipped, run.Failed)
		if err != nil {
			return fmt.Errorf("failed to update daily stats: %w", err)
		}
		return nil
	})
}

// GetRun loads one run by ID
func (s *Store) GetRun(id int64) (*Run, error) {
	rows, err := s.db.Query(selectRuns+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return &runs[0], nil
}

// RecentRuns returns the newest runs first
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	query := selectRuns + ` ORDER BY started_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetDailyStats returns the totals for the day containing t
func (s *Store) GetDailyStats(t time.Time) (*DailyStats, error) {
	stats := &DailyStats{Date: dateOf(t)}

	err := s.db.QueryRow(`
		SELECT runs, videos_watched, videos_skipped, videos_failed
		FROM daily_stats WHERE date = ?
	`, stats.Date).Scan(&stats.Runs, &stats.VideosWatched, &stats.VideosSkipped, &stats.VideosFailed)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

const selectRuns = `
	SELECT id, search_query, skip_percent, max_videos, status,
		   total, watched, skipped, failed, error_message, started_at, finished_at
	FROM runs`

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run

	for rows.Next() {
		var r Run
		var errMsg sql.NullString
		var finished sql.NullTime

		if err := rows.Scan(
			&r.ID, &r.SearchQuery, &r.SkipPercent, &r.MaxVideos, &r.Status,
			&r.Total, &r.Watched, &r.Skipped, &r.Failed, &errMsg, &r.StartedAt, &finished,
		); err != nil {
			return nil, err
		}

		r.ErrorMessage = errMsg.String
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
