package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// compile-time check that *DB implements repository.ProjectRepository
var _ repository.ProjectRepository = (*DB)(nil)

const projectColumns = `id, name, description, url, date_added, score, status,
	submitted_by_id, group_id, category_id`

func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.URL,
		&p.DateAdded,
		&p.Score,
		&p.Status,
		&p.SubmittedByID,
		&p.GroupID,
		&p.CategoryID,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a new project.
//
// TWO LAYERS OF DUPLICATE PROTECTION:
// The name check and the insert run in one transaction, so two concurrent
// submissions of the same name serialize instead of both passing the check.
// And even if a second writer slipped through, the UNIQUE constraint on
// projects.name rejects it — we translate that violation to the same
// Conflict error. The duplicate path inserts nothing.
func (db *DB) CreateProject(ctx context.Context, project *model.Project) error {
	project.ID = xid.New().String()
	if project.DateAdded.IsZero() {
		project.DateAdded = time.Now()
	}

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM projects WHERE name = ?`, project.Name,
		).Scan(&existing)
		if err == nil {
			return apperror.Conflict("This project already exists.")
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking project name %q: %w", project.Name, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, description, url, date_added, score,
			                       status, submitted_by_id, group_id, category_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			project.ID,
			project.Name,
			project.Description,
			project.URL,
			project.DateAdded,
			project.Score,
			project.Status,
			project.SubmittedByID,
			project.GroupID,
			project.CategoryID,
		)
		if isUniqueViolation(err) {
			return apperror.Conflict("This project already exists.")
		}
		if err != nil {
			return fmt.Errorf("inserting project %q: %w", project.Name, err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("sqlite: creating project: %w", err)
	}
	return nil
}

// GetProjectByID retrieves a single project by its ID.
func (db *DB) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("There was no such project.")
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}
	return p, nil
}

// ListProjects returns all projects in the requested ordering.
//
// The ORDER BY clause is chosen from a fixed set — never interpolated from
// user input — so there is no injection surface here.
func (db *DB) ListProjects(ctx context.Context, order repository.ProjectOrder) ([]model.Project, error) {
	var orderBy string
	switch order {
	case repository.OrderNewest:
		orderBy = "date_added"
	case repository.OrderPopular:
		orderBy = "score DESC"
	default:
		orderBy = "name COLLATE NOCASE"
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY `+orderBy)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects: %w", err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// ProjectsBySubmitter returns the projects a user submitted, filtered by status.
// approved=false is the pending set; approved=true the published set. The
// two sets are disjoint and together cover the user's full submission list.
func (db *DB) ProjectsBySubmitter(ctx context.Context, userID string, approved bool) ([]model.Project, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE submitted_by_id = ? AND status = ?
		 ORDER BY date_added DESC`,
		userID, approved)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing submissions for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// ProjectsByGroup returns the projects belonging to a group.
func (db *DB) ProjectsByGroup(ctx context.Context, groupID string) ([]model.Project, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE group_id = ? ORDER BY name COLLATE NOCASE`,
		groupID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects for group %s: %w", groupID, err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// ProjectsByCategory returns the projects belonging to a category.
func (db *DB) ProjectsByCategory(ctx context.Context, categoryID string) ([]model.Project, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE category_id = ? ORDER BY name COLLATE NOCASE`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects for category %s: %w", categoryID, err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// SetProjectStatus sets the approval flag on a project.
func (db *DB) SetProjectStatus(ctx context.Context, id string, approved bool) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE projects SET status = ? WHERE id = ?`, approved, id)
	if err != nil {
		return fmt.Errorf("sqlite: setting status for project %s: %w", id, err)
	}
	return checkAffected(result, "There was no such project.")
}

// SetProjectScore writes the recomputed popularity score. Only the updater calls this.
func (db *DB) SetProjectScore(ctx context.Context, id string, score int) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE projects SET score = ? WHERE id = ?`, score, id)
	if err != nil {
		return fmt.Errorf("sqlite: setting score for project %s: %w", id, err)
	}
	return checkAffected(result, "There was no such project.")
}

func collectProjects(rows *sql.Rows) ([]model.Project, error) {
	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating projects: %w", err)
	}
	return projects, nil
}

// checkAffected turns a zero-row UPDATE/DELETE into a NotFound error.
// One query instead of SELECT + mutate.
func checkAffected(result sql.Result, notFoundMsg string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(notFoundMsg)
	}
	return nil
}
