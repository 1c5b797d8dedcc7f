package repository

import (
	"context"
	"database/sql"

	"github.com/runlog/runlog-api/internal/model"
)

type IntervalRepo struct{ DB *sql.DB }

func NewIntervalRepo(db *sql.DB) *IntervalRepo { return &IntervalRepo{DB: db} }

const intervalColumns = "id,run_id,distance,duration,metric,created,updated"

// Create inserts the interval and fills in its ID and timestamps. Null
// candidate values are passed through as-is: with no validation rules on
// intervals, the column constraints are the only gate and their rejection
// surfaces as a plain write error.
func (r *IntervalRepo) Create(ctx context.Context, iv *model.Interval) error {
	ts := now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO intervals (run_id, distance, duration, metric, created, updated) VALUES (?,?,?,?,?,?)",
		iv.RunID, iv.Distance, iv.Duration, iv.Metric, ts, ts)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	iv.ID = uint64(id)
	iv.Created, iv.Updated = ts, ts
	return nil
}

// GetByID fetches an interval by id.
func (r *IntervalRepo) GetByID(ctx context.Context, id uint64) (*model.Interval, error) {
	var iv model.Interval
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+intervalColumns+" FROM intervals WHERE id=? LIMIT 1", id).Scan(
		&iv.ID, &iv.RunID, &iv.Distance, &iv.Duration, &iv.Metric, &iv.Created, &iv.Updated)
	if err == sql.ErrNoRows {
		return nil, ErrIntervalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// ListByRun returns all intervals of a run, oldest first.
func (r *IntervalRepo) ListByRun(ctx context.Context, runID uint64) ([]model.Interval, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+intervalColumns+" FROM intervals WHERE run_id=? ORDER BY id", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intervals := make([]model.Interval, 0)
	for rows.Next() {
		var iv model.Interval
		if err := rows.Scan(&iv.ID, &iv.RunID, &iv.Distance, &iv.Duration, &iv.Metric,
			&iv.Created, &iv.Updated); err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}

// Delete removes the interval row permanently.
func (r *IntervalRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM intervals WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrIntervalNotFound
	}
	return nil
}
