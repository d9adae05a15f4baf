package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/toolshed/internal/auth"
	"github.com/sakif/toolshed/internal/handler"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository/sqlite"
	"github.com/sakif/toolshed/internal/service"
)

// stubImporter stands in for the GitHub client: it fabricates a project from
// the submitted input without any network traffic.
type stubImporter struct{}

func (stubImporter) BuildProject(_ context.Context, input model.ProjectInput) (*model.Project, error) {
	name := input.Name
	if name == "" {
		name = "stub-project"
	}
	return &model.Project{
		Name:        name,
		Description: "from the stub importer",
		URL:         input.URL,
		Score:       10,
	}, nil
}

func (stubImporter) FetchScore(_ context.Context, _ string) (int, error) {
	return 10, nil
}

// testEnv wires real services over an in-memory database so the handler tests
// cover the whole request path below HTTP routing.
type testEnv struct {
	db       *sqlite.DB
	tokens   *auth.TokenService
	projects *handler.ProjectHandler
	comments *handler.CommentHandler
	likes    *handler.LikeHandler
	users    *handler.UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	imp := stubImporter{}

	userService := service.NewUserService(db, logger)
	projectService := service.NewProjectService(db, imp, imp, logger)
	commentService := service.NewCommentService(db, false, logger)
	likeService := service.NewLikeService(db, logger)

	return &testEnv{
		db:       db,
		tokens:   tokens,
		projects: handler.NewProjectHandler(projectService, auth.NewKeyService(), "", logger),
		comments: handler.NewCommentHandler(commentService, logger),
		likes:    handler.NewLikeHandler(likeService, logger),
		users:    handler.NewUserHandler(userService, projectService, commentService, likeService, logger),
	}
}

func (e *testEnv) seedUser(t *testing.T, githubID int64, login string) *model.User {
	t.Helper()
	user := &model.User{GitHubID: githubID, Login: login}
	require.NoError(t, e.db.Upsert(context.Background(), user))
	return user
}

// do routes a request through the auth middleware into h, optionally with a
// session cookie for userID, and returns the recorded response.
func (e *testEnv) do(t *testing.T, h http.HandlerFunc, req *http.Request, userID string) *httptest.ResponseRecorder {
	t.Helper()
	if userID != "" {
		token, err := e.tokens.Generate(userID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	auth.RequireAuth(e.tokens)(h).ServeHTTP(rr, req)
	return rr
}

// envelope mirrors the uniform response wrapper for decoding in assertions.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func failTitle(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeEnvelope(t, rr)
	require.Equal(t, "fail", env.Status)
	var data struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Title
}

func TestHandleSubmit(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, 1001, "octocat")

	submit := func(userID string) *httptest.ResponseRecorder {
		body := `{"url":"https://github.com/octocat/toolbox"}`
		req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		return env.do(t, env.projects.HandleSubmit, req, userID)
	}

	t.Run("authenticated submission", func(t *testing.T) {
		rr := submit(user.ID)
		assert.Equal(t, http.StatusCreated, rr.Code)

		resp := decodeEnvelope(t, rr)
		assert.Equal(t, "success", resp.Status)

		var project model.Project
		require.NoError(t, json.Unmarshal(resp.Data, &project))
		assert.Equal(t, "stub-project", project.Name)
		assert.Equal(t, user.ID, project.SubmittedByID)
		assert.False(t, project.Status, "submission must start pending")
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rr := submit(user.ID)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "This project already exists.", failTitle(t, rr))
	})

	t.Run("anonymous submission rejected", func(t *testing.T) {
		rr := submit("")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "User not logged in", failTitle(t, rr))
	})
}

func TestHandleGetUser_NotFound(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/users/999", nil)
	req.SetPathValue("id", "999")
	rr := httptest.NewRecorder()
	env.users.HandleGet(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "There was no such user.", failTitle(t, rr))
}

func TestHandleListUsers_EmptyIsFail(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rr := httptest.NewRecorder()
	env.users.HandleList(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "There are no users.", failTitle(t, rr))
}

func TestCommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, 1, "author")
	intruder := env.seedUser(t, 2, "intruder")

	project := &model.Project{
		Name:          "commented",
		URL:           "https://github.com/x/commented",
		SubmittedByID: author.ID,
	}
	require.NoError(t, env.db.CreateProject(ctx, project))

	var commentID string

	t.Run("create", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/projects/"+project.ID+"/comments",
			bytes.NewBufferString(`{"text":"nice tool!"}`))
		req.SetPathValue("id", project.ID)
		rr := env.do(t, env.comments.HandleCreate, req, author.ID)

		require.Equal(t, http.StatusCreated, rr.Code)
		var comment model.Comment
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &comment))
		assert.Equal(t, "nice tool!", comment.Text)
		commentID = comment.ID
	})

	t.Run("edit by non-author is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/comments/"+commentID,
			bytes.NewBufferString(`{"text":"defaced"}`))
		req.SetPathValue("id", commentID)
		rr := env.do(t, env.comments.HandleEdit, req, intruder.ID)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "You are not authorized to edit this comment.", failTitle(t, rr))
	})

	t.Run("edit by author succeeds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/comments/"+commentID,
			bytes.NewBufferString(`{"text":"revised"}`))
		req.SetPathValue("id", commentID)
		rr := env.do(t, env.comments.HandleEdit, req, author.ID)

		require.Equal(t, http.StatusOK, rr.Code)
		var comment model.Comment
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &comment))
		assert.Equal(t, "revised", comment.Text)
	})

	t.Run("delete by non-author is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/comments/"+commentID, nil)
		req.SetPathValue("id", commentID)
		rr := env.do(t, env.comments.HandleDelete, req, intruder.ID)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("delete by author echoes the removed comment", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/comments/"+commentID, nil)
		req.SetPathValue("id", commentID)
		rr := env.do(t, env.comments.HandleDelete, req, author.ID)

		require.Equal(t, http.StatusOK, rr.Code)
		var comment model.Comment
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &comment))
		assert.Equal(t, "revised", comment.Text)
	})
}

func TestLikeFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, 1001, "octocat")

	project := &model.Project{
		Name:          "liked",
		URL:           "https://github.com/x/liked",
		SubmittedByID: user.ID,
	}
	require.NoError(t, env.db.CreateProject(ctx, project))

	like := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/likes/projects/"+project.ID, nil)
		req.SetPathValue("id", project.ID)
		return env.do(t, env.likes.HandleCreate, req, user.ID)
	}

	rr := like()
	require.Equal(t, http.StatusCreated, rr.Code)

	// Liking again is a conflict.
	rr = like()
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "You have already liked this project.", failTitle(t, rr))

	// The single-project read reflects the like.
	getReq := httptest.NewRequest(http.MethodGet, "/projects/"+project.ID, nil)
	getReq.SetPathValue("id", project.ID)
	getRR := httptest.NewRecorder()
	env.projects.HandleGet(getRR, getReq)

	require.Equal(t, http.StatusOK, getRR.Code)
	var got model.Project
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, getRR).Data, &got))
	assert.Equal(t, 1, got.LikeCount)
}
