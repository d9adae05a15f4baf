// Package repository declares the storage interfaces consumed by the service
// layer. The sqlite subpackage provides the concrete implementation; services
// only ever see these interfaces, which keeps them testable with in-memory
// fakes and keeps SQL out of the business logic.
//
// Method names carry the entity name (CreateProject, CreateComment, ...)
// because a single storage type implements every interface — the names must
// not collide across entities.
package repository

import (
	"context"

	"github.com/sakif/toolshed/internal/model"
)

// ProjectOrder selects the ordering of a global project listing. Orderings
// are independent read-only queries — no stored view state.
type ProjectOrder string

const (
	// OrderName sorts alphabetically by project name (the default listing).
	OrderName ProjectOrder = "name"
	// OrderNewest sorts by date added, ascending — earliest submission
	// first, matching the chronological listing the API has always served.
	OrderNewest ProjectOrder = "newest"
	// OrderPopular sorts by score, highest first.
	OrderPopular ProjectOrder = "popular"
)

type UserRepository interface {
	// Upsert inserts a user on first login and refreshes profile fields on
	// subsequent logins, keyed by the stable GitHub ID. Populates user.ID.
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByLogin resolves the external-identity name to a user record.
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type ProjectRepository interface {
	// CreateProject inserts a new project inside a transaction that first
	// checks the name uniqueness key. Returns a conflict error and inserts
	// nothing when a project with the same name already exists.
	CreateProject(ctx context.Context, project *model.Project) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, order ProjectOrder) ([]model.Project, error)
	// ProjectsBySubmitter returns the submitter's projects filtered by
	// approval status.
	ProjectsBySubmitter(ctx context.Context, userID string, approved bool) ([]model.Project, error)
	ProjectsByGroup(ctx context.Context, groupID string) ([]model.Project, error)
	ProjectsByCategory(ctx context.Context, categoryID string) ([]model.Project, error)
	// SetProjectStatus flips the approval flag. The service only ever calls
	// it with approved=true; the transition is one-way.
	SetProjectStatus(ctx context.Context, id string, approved bool) error
	// SetProjectScore is reserved for the updater — the only writer of score.
	SetProjectScore(ctx context.Context, id string, score int) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	UpdateCommentText(ctx context.Context, id, text string) error
	DeleteComment(ctx context.Context, id string) error
	CommentsByProject(ctx context.Context, projectID string) ([]model.Comment, error)
	CommentsByUser(ctx context.Context, userID string) ([]model.Comment, error)
}

type LikeRepository interface {
	// CreateLike inserts a like inside a transaction that first checks the
	// (user, project) uniqueness key. A duplicate is a conflict, not a row.
	CreateLike(ctx context.Context, like *model.Like) error
	GetLikeByID(ctx context.Context, id string) (*model.Like, error)
	DeleteLike(ctx context.Context, id string) error
	LikesByUser(ctx context.Context, userID string) ([]model.Like, error)
	LikesByProject(ctx context.Context, projectID string) ([]model.Like, error)
	CountProjectLikes(ctx context.Context, projectID string) (int, error)
}

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroupByID(ctx context.Context, id string) (*model.Group, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type LogRepository interface {
	// AppendLog writes an audit row. Logs are append-only — there is no
	// update or delete on this interface by design of the audit trail.
	AppendLog(ctx context.Context, entry *model.Log) error
	LogsByProject(ctx context.Context, projectID string) ([]model.Log, error)
	AllLogs(ctx context.Context) ([]model.Log, error)
}
