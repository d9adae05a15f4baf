package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/toolshed/internal/service"
)

// UserHandler serves the user listings and the per-user sub-collections
// (submissions, comments, likes). It fans out to the services that own each
// collection; the routes are grouped here because they all hang off /users.
type UserHandler struct {
	users    *service.UserService
	projects *service.ProjectService
	comments *service.CommentService
	likes    *service.LikeService
	logger   *slog.Logger
}

func NewUserHandler(
	users *service.UserService,
	projects *service.ProjectService,
	comments *service.CommentService,
	likes *service.LikeService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		users:    users,
		projects: projects,
		comments: comments,
		likes:    likes,
		logger:   logger,
	}
}

// HandleList returns all registered users.
//
// HTTP: GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, users)
}

// HandleGet returns a single user by ID.
//
// HTTP: GET /users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, user)
}

// HandleSubmissions returns a user's approved projects.
//
// HTTP: GET /users/{id}/submissions
func (h *UserHandler) HandleSubmissions(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.Submissions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, projects)
}

// HandlePendingSubmissions returns a user's not-yet-approved projects.
//
// HTTP: GET /users/{id}/pending_submissions
func (h *UserHandler) HandlePendingSubmissions(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.PendingSubmissions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, projects)
}

// HandleComments returns the comments a user has written.
//
// HTTP: GET /users/{id}/comments
func (h *UserHandler) HandleComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ForUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, comments)
}

// HandleLikes returns the likes a user has given.
//
// HTTP: GET /users/{id}/likes
func (h *UserHandler) HandleLikes(w http.ResponseWriter, r *http.Request) {
	likes, err := h.likes.ForUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, likes)
}
