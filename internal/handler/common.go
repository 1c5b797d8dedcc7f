// Package handler implements the HTTP operation set. Each handler parses
// form input into a candidate entity, runs validation, runs the ownership
// checks against the caller identity, performs the persistence call and
// returns a serialized projection. Existence is decided before ownership, so
// a missing target is always a 404 even when the caller would also have been
// forbidden.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/runlog/runlog-api/internal/utils"
)

// dbTimeout bounds every database call made on behalf of a request.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the authenticated user's ID placed in the context by the
// JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// formValues returns the request's form-encoded body as url.Values. Key
// presence in the map is what distinguishes a supplied-but-empty field from
// an absent one; every patch helper below applies a field only when its key
// was actually sent.
func formValues(c echo.Context) (url.Values, error) {
	if err := c.Request().ParseForm(); err != nil {
		return nil, err
	}
	return c.Request().PostForm, nil
}

func patchString(form url.Values, key string, dst *sql.NullString) {
	if _, ok := form[key]; ok {
		*dst = sql.NullString{String: form.Get(key), Valid: true}
	}
}

// patchInt leaves dst untouched when the key is absent and stores an invalid
// value when the field does not parse: an unparseable number is
// indistinguishable from a missing one by the time validation runs.
func patchInt(form url.Values, key string, dst *sql.NullInt64) {
	if _, ok := form[key]; !ok {
		return
	}
	n, ok := utils.ParseInt(form.Get(key))
	*dst = sql.NullInt64{Int64: n, Valid: ok}
}

func patchBool(form url.Values, key string, dst *sql.NullBool) {
	if _, ok := form[key]; !ok {
		return
	}
	b, ok := utils.ParseBool(form.Get(key))
	*dst = sql.NullBool{Bool: b, Valid: ok}
}

func patchDate(form url.Values, key string, dst *sql.NullTime) {
	if _, ok := form[key]; !ok {
		return
	}
	t, ok := utils.ParseDate(form.Get(key))
	*dst = sql.NullTime{Time: t, Valid: ok}
}
