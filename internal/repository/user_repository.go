package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/runlog/runlog-api/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,first_name,last_name,email,password_hash,is_active,metric,created,updated"

// UserFilter selects and pages the user listing. A filter field left invalid
// is not applied; exact matching only, no substring or fuzzy search.
type UserFilter struct {
	FirstName sql.NullString
	LastName  sql.NullString
	Page      int
	PageSize  int
}

// Create inserts the user and fills in its ID and timestamps. A duplicate
// email is reported as ErrEmailExists whether it was caught by the caller's
// pre-check or by the unique index at commit time.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	ts := now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email, password_hash, is_active, metric, created, updated) VALUES (?,?,?,?,?,?,?,?)",
		u.FirstName.String, u.LastName.String, u.Email.String, u.PasswordHash,
		u.IsActive.Bool, u.Metric.Bool, ts, ts)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.Created, u.Updated = ts, ts
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getBy(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

func (r *UserRepo) getBy(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.Metric, &u.Created, &u.Updated)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update rewrites the user's mutable columns and bumps the updated timestamp.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	ts := now()
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=?, email=?, password_hash=?, is_active=?, metric=?, updated=? WHERE id=?",
		u.FirstName.String, u.LastName.String, u.Email.String, u.PasswordHash,
		u.IsActive.Bool, u.Metric.Bool, ts, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	u.Updated = ts
	return nil
}

// List returns one page of users ordered by last name ascending (id breaks
// ties so repeated reads page identically). A page past the end comes back
// empty, never as an error.
func (r *UserRepo) List(ctx context.Context, f UserFilter) ([]model.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	args := []any{}
	if f.FirstName.Valid && f.LastName.Valid {
		query += " WHERE first_name=? AND last_name=?"
		args = append(args, f.FirstName.String, f.LastName.String)
	} else if f.FirstName.Valid {
		query += " WHERE first_name=?"
		args = append(args, f.FirstName.String)
	}
	query += " ORDER BY last_name, id LIMIT ? OFFSET ?"
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
			&u.IsActive, &u.Metric, &u.Created, &u.Updated); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// isDuplicateKey reports whether err is a MySQL 1062 duplicate-entry error.
func isDuplicateKey(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
