package model

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var emailCheck = validator.New()

// User mirrors the 'users' table. Password holds a clear-text candidate value
// only between form parsing and hashing; PasswordHash is what gets stored and
// neither ever appears in a serialized projection.
type User struct {
	ID           uint64
	FirstName    sql.NullString
	LastName     sql.NullString
	Email        sql.NullString
	Password     sql.NullString
	PasswordHash string
	IsActive     sql.NullBool
	Metric       sql.NullBool
	Created      time.Time
	Updated      time.Time
}

// Validate checks the candidate state rule by rule and stops at the first
// failure. Rule order is part of the API contract: only one error is ever
// surfaced per call.
func (u *User) Validate() error {
	if !u.FirstName.Valid {
		return errors.New("Must supply first name")
	}
	if !u.LastName.Valid {
		return errors.New("Must supply last name")
	}
	if !u.Email.Valid {
		return errors.New("Must supply email")
	}
	if emailCheck.Var(u.Email.String, "email") != nil {
		return errors.New("Invalid email address")
	}
	if !u.Password.Valid {
		return errors.New("Must supply password")
	}
	if !u.IsActive.Valid {
		return errors.New("Invalid is_active value")
	}
	if !u.Metric.Valid {
		return errors.New("Invalid metric value")
	}
	if len(u.Password.String) < 8 {
		return errors.New("Password must be at least 8 characters")
	}
	return nil
}

// Serialize returns the base projection: every scalar field except the
// password, timestamps in the fixed ISO format.
func (u *User) Serialize() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"first_name": u.FirstName.String,
		"last_name":  u.LastName.String,
		"email":      u.Email.String,
		"is_active":  u.IsActive.Bool,
		"metric":     u.Metric.Bool,
		"created":    formatTime(u.Created),
		"updated":    formatTime(u.Updated),
	}
}

// SerializeWithRuns extends the base projection with the user's runs. The
// caller fetches the runs explicitly; each entry is a Run base projection.
func (u *User) SerializeWithRuns(runs []map[string]any) map[string]any {
	data := u.Serialize()
	data["runs"] = runs
	return data
}
