package model

import (
	"database/sql"
	"time"
)

// Interval mirrors the 'intervals' table. It belongs to exactly one Run.
// Intervals carry no validation rules beyond their column constraints; any
// distance/duration/metric combination that parses is accepted.
type Interval struct {
	ID       uint64
	RunID    uint64
	Distance sql.NullInt64
	Duration sql.NullInt64
	Metric   sql.NullBool
	Created  time.Time
	Updated  time.Time
}

// Serialize embeds the owning run's full base projection, which in turn
// re-embeds the run's owner. No depth limit applies.
func (i *Interval) Serialize(run *Run, runOwner *User) map[string]any {
	return map[string]any{
		"id":       i.ID,
		"run":      run.Serialize(runOwner),
		"distance": i.Distance.Int64,
		"duration": i.Duration.Int64,
		"metric":   i.Metric.Bool,
		"created":  formatTime(i.Created),
		"updated":  formatTime(i.Updated),
	}
}
