package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// mockStore is an in-memory implementation of every repository interface, so
// one value can back any service under test the same way one sqlite.DB backs
// them in production. It stores copies, not pointers, so tests can't mutate
// the "database" through returned values.
type mockStore struct {
	users      map[string]*model.User
	projects   map[string]*model.Project
	comments   map[string]*model.Comment
	likes      map[string]*model.Like
	groups     map[string]*model.Group
	categories map[string]*model.Category
	logs       []model.Log
	nextID     int
}

func newMockStore() *mockStore {
	return &mockStore{
		users:      make(map[string]*model.User),
		projects:   make(map[string]*model.Project),
		comments:   make(map[string]*model.Comment),
		likes:      make(map[string]*model.Like),
		groups:     make(map[string]*model.Group),
		categories: make(map[string]*model.Category),
	}
}

func (m *mockStore) id() string {
	m.nextID++
	return fmt.Sprintf("mock-%d", m.nextID)
}

// --- UserRepository ---

func (m *mockStore) Upsert(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.GitHubID == user.GitHubID {
			user.ID = u.ID
			stored := *user
			m.users[u.ID] = &stored
			return nil
		}
	}
	user.ID = m.id()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("There was no such user.")
	}
	result := *u
	return &result, nil
}

func (m *mockStore) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range m.users {
		if u.Login == login {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("There was no such user.")
}

func (m *mockStore) ListUsers(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

// --- ProjectRepository ---

func (m *mockStore) CreateProject(_ context.Context, project *model.Project) error {
	for _, p := range m.projects {
		if p.Name == project.Name {
			return apperror.Conflict("This project already exists.")
		}
	}
	project.ID = m.id()
	if project.DateAdded.IsZero() {
		project.DateAdded = time.Now()
	}
	stored := *project
	m.projects[project.ID] = &stored
	return nil
}

func (m *mockStore) GetProjectByID(_ context.Context, id string) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, apperror.NotFound("There was no such project.")
	}
	result := *p
	return &result, nil
}

func (m *mockStore) ListProjects(_ context.Context, _ repository.ProjectOrder) ([]model.Project, error) {
	result := make([]model.Project, 0, len(m.projects))
	for _, p := range m.projects {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockStore) ProjectsBySubmitter(_ context.Context, userID string, approved bool) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if p.SubmittedByID == userID && p.Status == approved {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockStore) ProjectsByGroup(_ context.Context, groupID string) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if p.GroupID != nil && *p.GroupID == groupID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockStore) ProjectsByCategory(_ context.Context, categoryID string) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockStore) SetProjectStatus(_ context.Context, id string, approved bool) error {
	p, ok := m.projects[id]
	if !ok {
		return apperror.NotFound("There was no such project.")
	}
	p.Status = approved
	return nil
}

func (m *mockStore) SetProjectScore(_ context.Context, id string, score int) error {
	p, ok := m.projects[id]
	if !ok {
		return apperror.NotFound("There was no such project.")
	}
	p.Score = score
	return nil
}

// --- CommentRepository ---

func (m *mockStore) CreateComment(_ context.Context, comment *model.Comment) error {
	comment.ID = m.id()
	comment.Created = time.Now()
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *mockStore) GetCommentByID(_ context.Context, id string) (*model.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, apperror.NotFound("There was no such comment.")
	}
	result := *c
	return &result, nil
}

func (m *mockStore) UpdateCommentText(_ context.Context, id, text string) error {
	c, ok := m.comments[id]
	if !ok {
		return apperror.NotFound("There was no such comment.")
	}
	c.Text = text
	return nil
}

func (m *mockStore) DeleteComment(_ context.Context, id string) error {
	if _, ok := m.comments[id]; !ok {
		return apperror.NotFound("There was no such comment.")
	}
	delete(m.comments, id)
	return nil
}

func (m *mockStore) CommentsByProject(_ context.Context, projectID string) ([]model.Comment, error) {
	var result []model.Comment
	for _, c := range m.comments {
		if c.ProjectID == projectID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockStore) CommentsByUser(_ context.Context, userID string) ([]model.Comment, error) {
	var result []model.Comment
	for _, c := range m.comments {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

// --- LikeRepository ---

func (m *mockStore) CreateLike(_ context.Context, like *model.Like) error {
	for _, l := range m.likes {
		if l.UserID == like.UserID && l.ProjectID == like.ProjectID {
			return apperror.Conflict("You have already liked this project.")
		}
	}
	like.ID = m.id()
	stored := *like
	m.likes[like.ID] = &stored
	return nil
}

func (m *mockStore) GetLikeByID(_ context.Context, id string) (*model.Like, error) {
	l, ok := m.likes[id]
	if !ok {
		return nil, apperror.NotFound("There was no such like.")
	}
	result := *l
	return &result, nil
}

func (m *mockStore) DeleteLike(_ context.Context, id string) error {
	if _, ok := m.likes[id]; !ok {
		return apperror.NotFound("There was no such like.")
	}
	delete(m.likes, id)
	return nil
}

func (m *mockStore) LikesByUser(_ context.Context, userID string) ([]model.Like, error) {
	var result []model.Like
	for _, l := range m.likes {
		if l.UserID == userID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockStore) LikesByProject(_ context.Context, projectID string) ([]model.Like, error) {
	var result []model.Like
	for _, l := range m.likes {
		if l.ProjectID == projectID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockStore) CountProjectLikes(ctx context.Context, projectID string) (int, error) {
	likes, _ := m.LikesByProject(ctx, projectID)
	return len(likes), nil
}

// --- GroupRepository / CategoryRepository ---

func (m *mockStore) CreateGroup(_ context.Context, group *model.Group) error {
	group.ID = m.id()
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *mockStore) GetGroupByID(_ context.Context, id string) (*model.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, apperror.NotFound("There is no such group.")
	}
	result := *g
	return &result, nil
}

func (m *mockStore) ListGroups(_ context.Context) ([]model.Group, error) {
	result := make([]model.Group, 0, len(m.groups))
	for _, g := range m.groups {
		result = append(result, *g)
	}
	return result, nil
}

func (m *mockStore) CreateCategory(_ context.Context, category *model.Category) error {
	category.ID = m.id()
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *mockStore) GetCategoryByID(_ context.Context, id string) (*model.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, apperror.NotFound("There is no such category.")
	}
	result := *c
	return &result, nil
}

func (m *mockStore) ListCategories(_ context.Context) ([]model.Category, error) {
	result := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		result = append(result, *c)
	}
	return result, nil
}

// --- LogRepository ---

func (m *mockStore) AppendLog(_ context.Context, entry *model.Log) error {
	entry.ID = m.id()
	entry.CreatedAt = time.Now()
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *mockStore) LogsByProject(_ context.Context, projectID string) ([]model.Log, error) {
	var result []model.Log
	for _, l := range m.logs {
		if l.ProjectID == projectID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockStore) AllLogs(_ context.Context) ([]model.Log, error) {
	return append([]model.Log(nil), m.logs...), nil
}

// --- importer fakes ---

// stubImporter returns a canned project (copy) or error.
type stubImporter struct {
	project *model.Project
	err     error
}

func (s *stubImporter) BuildProject(_ context.Context, input model.ProjectInput) (*model.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := *s.project
	if input.Name != "" {
		p.Name = input.Name
	}
	return &p, nil
}

// stubUpdater returns a fixed score or error.
type stubUpdater struct {
	score int
	err   error
}

func (s *stubUpdater) FetchScore(_ context.Context, _ string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.score, nil
}

// --- helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func seedMockUser(t *testing.T, store *mockStore, login string) *model.User {
	t.Helper()
	user := &model.User{GitHubID: int64(len(store.users) + 1), Login: login}
	if err := store.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %q: %v", login, err)
	}
	return user
}

func seedMockProject(t *testing.T, store *mockStore, name, submitterID string) *model.Project {
	t.Helper()
	project := &model.Project{
		Name:          name,
		URL:           "https://github.com/x/" + name,
		SubmittedByID: submitterID,
	}
	if err := store.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("failed to seed project %q: %v", name, err)
	}
	return project
}
