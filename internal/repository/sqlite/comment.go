package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// compile-time check that *DB implements repository.CommentRepository
var _ repository.CommentRepository = (*DB)(nil)

// CreateComment inserts a new comment. The creation timestamp is stamped
// here; callers never supply it.
func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.Created = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, text, created, project_id, user_id)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID,
		comment.Text,
		comment.Created,
		comment.ProjectID,
		comment.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}
	return nil
}

const commentColumns = `id, text, created, project_id, user_id`

func scanComment(row interface{ Scan(...any) error }) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.Text, &c.Created, &c.ProjectID, &c.UserID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCommentByID retrieves a single comment.
func (db *DB) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)

	c, err := scanComment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("There was no such comment.")
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}
	return c, nil
}

// UpdateCommentText replaces the comment's text. The created timestamp and
// the project/user references are immutable.
func (db *DB) UpdateCommentText(ctx context.Context, id, text string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE comments SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("sqlite: updating comment %s: %w", id, err)
	}
	return checkAffected(result, "There was no such comment.")
}

// DeleteComment removes a comment by ID.
func (db *DB) DeleteComment(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}
	return checkAffected(result, "There was no such comment.")
}

// CommentsByProject returns a project's comments, oldest first.
func (db *DB) CommentsByProject(ctx context.Context, projectID string) ([]model.Comment, error) {
	return db.listComments(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE project_id = ? ORDER BY created`,
		projectID)
}

// CommentsByUser returns a user's comments, oldest first.
func (db *DB) CommentsByUser(ctx context.Context, userID string) ([]model.Comment, error) {
	return db.listComments(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE user_id = ? ORDER BY created`,
		userID)
}

func (db *DB) listComments(ctx context.Context, query string, arg any) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}
