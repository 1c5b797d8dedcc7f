// Package repository implements data access over database/sql. Sentinel
// errors let handlers map storage outcomes to HTTP statuses without leaking
// engine detail: not-found sentinels become 404s, ErrEmailExists becomes the
// duplicate-email 400.
package repository

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrRunNotFound      = errors.New("run not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrIntervalNotFound = errors.New("interval not found")

	// ErrEmailExists is returned both by the pre-insert check and when the
	// unique index on users.email rejects a commit. The index is the final
	// arbiter when two registrations race past the pre-check.
	ErrEmailExists = errors.New("email already exists")
)

// now returns the current UTC time at second precision, matching the
// precision of the serialized timestamp format and of MySQL DATETIME.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
