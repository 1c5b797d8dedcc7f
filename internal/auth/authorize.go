// Package auth holds the ownership checks that gate mutations. Existence is
// always decided before ownership: handlers look the target up first (404),
// then ask this package (403). Reads are open to any authenticated caller,
// so only mutation paths come through here.
package auth

import (
	"errors"

	"github.com/runlog/runlog-api/internal/model"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else. Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// RequireRunOwner allows run mutations (update, delete, adding or removing
// intervals) only to the run's owner.
func RequireRunOwner(callerID uint64, run *model.Run) error {
	if run.UserID != callerID {
		return ErrForbidden
	}
	return nil
}

// RequireCommentAuthor allows comment mutations only to the comment's author.
// Owning the run a comment sits on grants nothing.
func RequireCommentAuthor(callerID uint64, c *model.RunComment) error {
	if c.UserID != callerID {
		return ErrForbidden
	}
	return nil
}
