package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runlog/runlog-api/internal/model"
)

var userCols = []string{"id", "first_name", "last_name", "email", "password_hash", "is_active", "metric", "created", "updated"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func userRow(id uint64, first, last, email string) *sqlmock.Rows {
	ts := time.Date(2023, 6, 15, 7, 30, 0, 0, time.UTC)
	return sqlmock.NewRows(userCols).
		AddRow(id, first, last, email, "$2a$04$hash", true, false, ts, ts)
}

func TestUserRepoCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO users (first_name, last_name, email, password_hash, is_active, metric, created, updated) VALUES (?,?,?,?,?,?,?,?)")).
		WithArgs("Jane", "Doe", "jane@example.com", "$2a$04$hash", true, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	u := model.User{
		FirstName:    sql.NullString{String: "Jane", Valid: true},
		LastName:     sql.NullString{String: "Doe", Valid: true},
		Email:        sql.NullString{String: "jane@example.com", Valid: true},
		PasswordHash: "$2a$04$hash",
		IsActive:     sql.NullBool{Bool: true, Valid: true},
		Metric:       sql.NullBool{Bool: false, Valid: true},
	}
	require.NoError(t, repo.Create(context.Background(), &u))
	assert.Equal(t, uint64(42), u.ID)
	assert.False(t, u.Created.IsZero())
	assert.Equal(t, u.Created, u.Updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	// The unique index fires at commit time; the race loser sees a 1062.
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'jane@example.com' for key 'uq_users_email'"))

	u := model.User{
		FirstName: sql.NullString{String: "Jane", Valid: true},
		LastName:  sql.NullString{String: "Doe", Valid: true},
		Email:     sql.NullString{String: "jane@example.com", Valid: true},
		IsActive:  sql.NullBool{Bool: true, Valid: true},
		Metric:    sql.NullBool{Valid: true},
	}
	err := repo.Create(context.Background(), &u)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepoGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepoGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
		WithArgs("jane@example.com").
		WillReturnRows(userRow(7, "Jane", "Doe", "jane@example.com"))

	u, err := repo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "Jane", u.FirstName.String)
	assert.True(t, u.IsActive.Bool)
}

func TestUserRepoUpdateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("UPDATE users SET").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	u := model.User{ID: 7, Email: sql.NullString{String: "taken@example.com", Valid: true}}
	assert.ErrorIs(t, repo.Update(context.Background(), &u), ErrEmailExists)
}

func TestUserRepoListUnfiltered(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,first_name,last_name,email,password_hash,is_active,metric,created,updated FROM users ORDER BY last_name, id LIMIT ? OFFSET ?")).
		WithArgs(10, 0).
		WillReturnRows(userRow(1, "Amy", "Aardvark", "amy@example.com").
			AddRow(2, "Ben", "Baker", "ben@example.com", "$2a$04$hash", true, false,
				time.Date(2023, 6, 15, 7, 30, 0, 0, time.UTC), time.Date(2023, 6, 15, 7, 30, 0, 0, time.UTC)))

	users, err := repo.List(context.Background(), UserFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Aardvark", users[0].LastName.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoListFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter UserFilter
		query  string
		args   []driverArg
	}{
		{
			name:   "first name only",
			filter: UserFilter{FirstName: sql.NullString{String: "Jane", Valid: true}, Page: 1, PageSize: 10},
			query:  "SELECT id,first_name,last_name,email,password_hash,is_active,metric,created,updated FROM users WHERE first_name=? ORDER BY last_name, id LIMIT ? OFFSET ?",
			args:   []driverArg{"Jane", 10, 0},
		},
		{
			name: "first and last name",
			filter: UserFilter{
				FirstName: sql.NullString{String: "Jane", Valid: true},
				LastName:  sql.NullString{String: "Doe", Valid: true},
				Page:      3, PageSize: 5,
			},
			query: "SELECT id,first_name,last_name,email,password_hash,is_active,metric,created,updated FROM users WHERE first_name=? AND last_name=? ORDER BY last_name, id LIMIT ? OFFSET ?",
			args:  []driverArg{"Jane", "Doe", 5, 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewUserRepo(db)

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(userCols))

			users, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Empty(t, users)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// driverArg keeps the filter tables readable.
type driverArg = driver.Value
