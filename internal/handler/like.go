package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/toolshed/internal/auth"
	"github.com/sakif/toolshed/internal/service"
)

// LikeHandler serves like/unlike and the per-project like listing.
type LikeHandler struct {
	likes  *service.LikeService
	logger *slog.Logger
}

func NewLikeHandler(likes *service.LikeService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{likes: likes, logger: logger}
}

// HandleCreate records that the caller liked a project. A second like on the
// same project by the same user is a conflict.
//
// HTTP: POST /likes/projects/{id}
// Auth: required
func (h *LikeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	like, err := h.likes.Like(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, like)
}

// HandleDelete removes a like by ID and echoes the removed record.
//
// HTTP: DELETE /likes/{id}
// Auth: required
func (h *LikeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	like, err := h.likes.Unlike(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, like)
}

// HandleListForProject returns the likes a project has received.
//
// HTTP: GET /projects/{id}/likes
func (h *LikeHandler) HandleListForProject(w http.ResponseWriter, r *http.Request) {
	likes, err := h.likes.ForProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, likes)
}
