package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/toolshed/internal/model"
)

// Tests run against an in-memory database: ":memory:" gives every test a
// fresh, isolated schema with no disk I/O, destroyed when the connection
// closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser creates a user via the same Upsert path production uses.
// githubID must differ between users in one test — it's UNIQUE.
func seedUser(t *testing.T, db *DB, githubID int64, login string) *model.User {
	t.Helper()
	user := &model.User{
		GitHubID:   githubID,
		Login:      login,
		ProfileURL: "https://github.com/" + login,
	}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %q: %v", login, err)
	}
	return user
}

func seedProject(t *testing.T, db *DB, name, submitterID string) *model.Project {
	t.Helper()
	project := &model.Project{
		Name:          name,
		Description:   "a seeded project",
		URL:           "https://github.com/example/" + name,
		SubmittedByID: submitterID,
	}
	if err := db.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("failed to seed project %q: %v", name, err)
	}
	return project
}
