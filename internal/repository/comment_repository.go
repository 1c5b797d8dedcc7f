package repository

import (
	"context"
	"database/sql"

	"github.com/runlog/runlog-api/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id,run_id,user_id,comment,created,updated"

// Create inserts the comment and fills in its ID and timestamps. Run and
// author references are set once here and never written again.
func (r *CommentRepo) Create(ctx context.Context, c *model.RunComment) error {
	ts := now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO run_comments (run_id, user_id, comment, created, updated) VALUES (?,?,?,?,?)",
		c.RunID, c.UserID, c.Comment.String, ts, ts)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	c.Created, c.Updated = ts, ts
	return nil
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.RunComment, error) {
	var c model.RunComment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM run_comments WHERE id=? LIMIT 1", id).Scan(
		&c.ID, &c.RunID, &c.UserID, &c.Comment, &c.Created, &c.Updated)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByRun returns all comments on a run, oldest first.
func (r *CommentRepo) ListByRun(ctx context.Context, runID uint64) ([]model.RunComment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM run_comments WHERE run_id=? ORDER BY id", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.RunComment, 0)
	for rows.Next() {
		var c model.RunComment
		if err := rows.Scan(&c.ID, &c.RunID, &c.UserID, &c.Comment, &c.Created, &c.Updated); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Update rewrites the comment text and bumps the updated timestamp.
func (r *CommentRepo) Update(ctx context.Context, c *model.RunComment) error {
	ts := now()
	_, err := r.DB.ExecContext(ctx,
		"UPDATE run_comments SET comment=?, updated=? WHERE id=?",
		c.Comment.String, ts, c.ID)
	if err != nil {
		return err
	}
	c.Updated = ts
	return nil
}

// Delete removes the comment row permanently.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM run_comments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
