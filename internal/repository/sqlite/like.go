package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// compile-time check that *DB implements repository.LikeRepository
var _ repository.LikeRepository = (*DB)(nil)

// CreateLike inserts a like.
//
// Same two-layer duplicate protection as project submission: transactional
// check on the (user_id, project_id) pair, backed by the UNIQUE index.
// A duplicate like is a conflict — it must never become a second row, or the
// popularity ranking would count one user twice.
func (db *DB) CreateLike(ctx context.Context, like *model.Like) error {
	like.ID = xid.New().String()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM likes WHERE user_id = ? AND project_id = ?`,
			like.UserID, like.ProjectID,
		).Scan(&existing)
		if err == nil {
			return apperror.Conflict("You have already liked this project.")
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking existing like: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO likes (id, user_id, project_id) VALUES (?, ?, ?)`,
			like.ID, like.UserID, like.ProjectID,
		)
		if isUniqueViolation(err) {
			return apperror.Conflict("You have already liked this project.")
		}
		if err != nil {
			return fmt.Errorf("inserting like: %w", err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("sqlite: creating like: %w", err)
	}
	return nil
}

// GetLikeByID retrieves a single like.
func (db *DB) GetLikeByID(ctx context.Context, id string) (*model.Like, error) {
	var l model.Like
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, project_id FROM likes WHERE id = ?`, id,
	).Scan(&l.ID, &l.UserID, &l.ProjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("There was no such like.")
		}
		return nil, fmt.Errorf("sqlite: getting like %s: %w", id, err)
	}
	return &l, nil
}

// DeleteLike removes exactly one like row by ID.
func (db *DB) DeleteLike(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM likes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting like %s: %w", id, err)
	}
	return checkAffected(result, "There was no such like.")
}

// LikesByUser returns all likes a user has given.
func (db *DB) LikesByUser(ctx context.Context, userID string) ([]model.Like, error) {
	return db.listLikes(ctx,
		`SELECT id, user_id, project_id FROM likes WHERE user_id = ?`, userID)
}

// LikesByProject returns all likes a project has received.
func (db *DB) LikesByProject(ctx context.Context, projectID string) ([]model.Like, error) {
	return db.listLikes(ctx,
		`SELECT id, user_id, project_id FROM likes WHERE project_id = ?`, projectID)
}

// CountProjectLikes returns the number of likes for a project. Because of the
// uniqueness constraint this equals the number of distinct users who liked it.
func (db *DB) CountProjectLikes(ctx context.Context, projectID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE project_id = ?`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting likes for project %s: %w", projectID, err)
	}
	return count, nil
}

func (db *DB) listLikes(ctx context.Context, query string, arg any) ([]model.Like, error) {
	rows, err := db.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing likes: %w", err)
	}
	defer rows.Close()

	var likes []model.Like
	for rows.Next() {
		var l model.Like
		if err := rows.Scan(&l.ID, &l.UserID, &l.ProjectID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning like row: %w", err)
		}
		likes = append(likes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating likes: %w", err)
	}
	return likes, nil
}
