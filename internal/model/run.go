package model

import (
	"database/sql"
	"errors"
	"time"
)

// Run mirrors the 'runs' table. The owner (UserID) is set once at creation
// and no operation reassigns it. Distance is interpreted according to the
// run's own metric flag, not the owning user's preference.
type Run struct {
	ID       uint64
	UserID   uint64
	RunDate  sql.NullTime
	Distance sql.NullInt64
	Duration sql.NullInt64
	Metric   sql.NullBool
	Warmup   sql.NullInt64
	Cooldown sql.NullInt64
	RunType  sql.NullString
	Location sql.NullString
	Notes    sql.NullString
	Created  time.Time
	Updated  time.Time
}

// Validate checks the candidate state in fixed order, first failure wins.
// An unparseable run date arrives here as an invalid NullTime, so it is
// indistinguishable from an absent one.
func (r *Run) Validate() error {
	if !r.RunDate.Valid {
		return errors.New("Invalid run date")
	}
	if !r.Distance.Valid {
		return errors.New("Must supply distance")
	}
	if !r.Duration.Valid {
		return errors.New("Must supply duration")
	}
	if !r.Metric.Valid {
		return errors.New("Invalid metric setting")
	}
	if !r.RunType.Valid {
		return errors.New("Must supply run type")
	}
	return nil
}

// Serialize returns the base projection. The owning user's full base
// projection is always embedded, never just an identifier.
func (r *Run) Serialize(owner *User) map[string]any {
	return map[string]any{
		"id":       r.ID,
		"user":     owner.Serialize(),
		"run_date": formatTime(r.RunDate.Time),
		"distance": r.Distance.Int64,
		"duration": r.Duration.Int64,
		"metric":   r.Metric.Bool,
		"warmup":   nullInt(r.Warmup),
		"cooldown": nullInt(r.Cooldown),
		"run_type": nullString(r.RunType),
		"location": nullString(r.Location),
		"notes":    nullString(r.Notes),
		"created":  formatTime(r.Created),
		"updated":  formatTime(r.Updated),
	}
}

// SerializeWithChildren extends the base projection with the run's comments
// and intervals. Both keys are always present, possibly as empty lists; the
// caller fetches the children through explicit repository calls.
func (r *Run) SerializeWithChildren(owner *User, comments, intervals []map[string]any) map[string]any {
	data := r.Serialize(owner)
	data["run_comments"] = comments
	data["intervals"] = intervals
	return data
}
