package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// Groups and categories are plain lookup tables, so both live here.

var (
	_ repository.GroupRepository    = (*DB)(nil)
	_ repository.CategoryRepository = (*DB)(nil)
)

// CreateGroup inserts a new group.
func (db *DB) CreateGroup(ctx context.Context, group *model.Group) error {
	group.ID = xid.New().String()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO groups (id, name) VALUES (?, ?)`, group.ID, group.Name)
	if isUniqueViolation(err) {
		return apperror.Conflict("This group already exists.")
	}
	if err != nil {
		return fmt.Errorf("sqlite: creating group: %w", err)
	}
	return nil
}

// GetGroupByID retrieves a group.
func (db *DB) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM groups WHERE id = ?`, id,
	).Scan(&g.ID, &g.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("There is no such group.")
		}
		return nil, fmt.Errorf("sqlite: getting group %s: %w", id, err)
	}
	return &g, nil
}

// ListGroups returns all groups ordered by name.
func (db *DB) ListGroups(ctx context.Context) ([]model.Group, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM groups ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating groups: %w", err)
	}
	return groups, nil
}

// CreateCategory inserts a new category.
func (db *DB) CreateCategory(ctx context.Context, category *model.Category) error {
	category.ID = xid.New().String()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES (?, ?)`, category.ID, category.Name)
	if isUniqueViolation(err) {
		return apperror.Conflict("This category already exists.")
	}
	if err != nil {
		return fmt.Errorf("sqlite: creating category: %w", err)
	}
	return nil
}

// GetCategoryByID retrieves a category.
func (db *DB) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("There is no such category.")
		}
		return nil, fmt.Errorf("sqlite: getting category %s: %w", id, err)
	}
	return &c, nil
}

// ListCategories returns all categories ordered by name.
func (db *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}
	return categories, nil
}
