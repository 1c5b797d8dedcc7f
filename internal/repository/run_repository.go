package repository

import (
	"context"
	"database/sql"

	"github.com/runlog/runlog-api/internal/model"
)

type RunRepo struct{ DB *sql.DB }

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{DB: db} }

const runColumns = "id,user_id,run_date,distance,duration,metric,warmup,cooldown,run_type,location,notes,created,updated"

// Create inserts the run and fills in its ID and timestamps. The owner
// (UserID) must already be set by the caller and is never written again.
func (r *RunRepo) Create(ctx context.Context, run *model.Run) error {
	ts := now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO runs (user_id, run_date, distance, duration, metric, warmup, cooldown, run_type, location, notes, created, updated) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)",
		run.UserID, run.RunDate.Time, run.Distance.Int64, run.Duration.Int64, run.Metric.Bool,
		run.Warmup, run.Cooldown, run.RunType, run.Location, run.Notes, ts, ts)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	run.ID = uint64(id)
	run.Created, run.Updated = ts, ts
	return nil
}

// GetByID fetches a run by id.
func (r *RunRepo) GetByID(ctx context.Context, id uint64) (*model.Run, error) {
	var run model.Run
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id=? LIMIT 1", id).Scan(
		&run.ID, &run.UserID, &run.RunDate, &run.Distance, &run.Duration, &run.Metric,
		&run.Warmup, &run.Cooldown, &run.RunType, &run.Location, &run.Notes,
		&run.Created, &run.Updated)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListByUser returns all runs owned by a user, oldest first.
func (r *RunRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Run, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE user_id=? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]model.Run, 0)
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.UserID, &run.RunDate, &run.Distance, &run.Duration,
			&run.Metric, &run.Warmup, &run.Cooldown, &run.RunType, &run.Location, &run.Notes,
			&run.Created, &run.Updated); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Update rewrites the run's mutable columns. user_id is deliberately absent
// from the statement: ownership never changes.
func (r *RunRepo) Update(ctx context.Context, run *model.Run) error {
	ts := now()
	_, err := r.DB.ExecContext(ctx,
		"UPDATE runs SET run_date=?, distance=?, duration=?, metric=?, warmup=?, cooldown=?, run_type=?, location=?, notes=?, updated=? WHERE id=?",
		run.RunDate.Time, run.Distance.Int64, run.Duration.Int64, run.Metric.Bool,
		run.Warmup, run.Cooldown, run.RunType, run.Location, run.Notes, ts, run.ID)
	if err != nil {
		return err
	}
	run.Updated = ts
	return nil
}

// Delete removes the run row permanently.
func (r *RunRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM runs WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRunNotFound
	}
	return nil
}
