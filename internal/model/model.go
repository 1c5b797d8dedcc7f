// Package model defines the persisted entities together with their validation
// and serialization contracts. Candidate fields use database/sql null types so
// validation can tell an absent value from an empty one: required-field rules
// reject absence, while an empty string that was explicitly supplied passes
// everywhere except comment text.
package model

import (
	"database/sql"
	"time"

	"github.com/runlog/runlog-api/internal/utils"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(utils.ISOFormat)
}

func nullInt(n sql.NullInt64) any {
	if n.Valid {
		return n.Int64
	}
	return nil
}

func nullString(s sql.NullString) any {
	if s.Valid {
		return s.String
	}
	return nil
}
