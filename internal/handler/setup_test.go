package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/runlog/runlog-api/internal/config"
	"github.com/runlog/runlog-api/internal/handler"
	"github.com/runlog/runlog-api/internal/repository"
	"github.com/runlog/runlog-api/internal/router"
	"github.com/runlog/runlog-api/internal/utils"
)

const testSecret = "test-secret"

var testTime = time.Date(2023, 6, 15, 7, 30, 0, 0, time.UTC)

// newTestAPI wires the real router over a mocked database so tests exercise
// the same middleware, handlers and SQL the server runs.
func newTestAPI(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		JWTSecret:       testSecret,
		TokenTTLDays:    1,
		BcryptCost:      bcrypt.MinCost,
		DefaultPageSize: 10,
		MaxPageSize:     50,
	}

	users := repository.NewUserRepo(db)
	runs := repository.NewRunRepo(db)
	comments := repository.NewCommentRepo(db)
	intervals := repository.NewIntervalRepo(db)

	e := echo.New()
	router.RegisterRoutes(e, cfg.JWTSecret,
		handler.NewAuthHandler(cfg, users),
		handler.NewUserHandler(cfg, users, runs),
		handler.NewRunHandler(users, runs, comments, intervals),
		handler.NewCommentHandler(users, runs, comments))
	return e, mock
}

func token(t *testing.T, userID uint64) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, 1)
	require.NoError(t, err)
	return tok.Token
}

// doForm performs a request with an optional form body and bearer token.
func doForm(e *echo.Echo, method, path string, form url.Values, bearer string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

var userCols = []string{"id", "first_name", "last_name", "email", "password_hash", "is_active", "metric", "created", "updated"}
var runCols = []string{"id", "user_id", "run_date", "distance", "duration", "metric", "warmup", "cooldown", "run_type", "location", "notes", "created", "updated"}
var commentCols = []string{"id", "run_id", "user_id", "comment", "created", "updated"}
var intervalCols = []string{"id", "run_id", "distance", "duration", "metric", "created", "updated"}

func userRows(id uint64, first, last, email, hash string) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).AddRow(id, first, last, email, hash, true, false, testTime, testTime)
}

func runRows(id, ownerID uint64) *sqlmock.Rows {
	return sqlmock.NewRows(runCols).
		AddRow(id, ownerID, testTime, 5, 1800, true, nil, nil, "tempo", nil, nil, testTime, testTime)
}

func commentRows(id, runID, userID uint64, text string) *sqlmock.Rows {
	return sqlmock.NewRows(commentCols).AddRow(id, runID, userID, text, testTime, testTime)
}
