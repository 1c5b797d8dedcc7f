package model

import (
	"database/sql"
	"errors"
	"time"
)

// RunComment mirrors the 'run_comments' table. It belongs to exactly one Run
// and one User (the author); both references are immutable after creation.
type RunComment struct {
	ID      uint64
	RunID   uint64
	UserID  uint64
	Comment sql.NullString
	Created time.Time
	Updated time.Time
}

// Validate rejects absent and empty comment text alike.
func (c *RunComment) Validate() error {
	if !c.Comment.Valid || c.Comment.String == "" {
		return errors.New("Must supply comment text")
	}
	return nil
}

// Serialize embeds both the parent run's base projection and the author's
// base projection.
func (c *RunComment) Serialize(run *Run, runOwner, author *User) map[string]any {
	return map[string]any{
		"id":      c.ID,
		"run":     run.Serialize(runOwner),
		"user":    author.Serialize(),
		"comment": c.Comment.String,
		"created": formatTime(c.Created),
		"updated": formatTime(c.Updated),
	}
}
