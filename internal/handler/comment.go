package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/toolshed/internal/auth"
	"github.com/sakif/toolshed/internal/service"
)

// CommentHandler serves comment creation, owner-gated editing and deletion,
// and the per-project comment listing.
type CommentHandler struct {
	comments *service.CommentService
	logger   *slog.Logger
}

func NewCommentHandler(comments *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

// commentInput is the request body for creating or editing a comment.
type commentInput struct {
	Text string `json:"text"`
}

// HandleListForProject returns a project's comments.
//
// HTTP: GET /projects/{id}/comments
func (h *CommentHandler) HandleListForProject(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ForProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, comments)
}

// HandleCreate adds a comment to a project, attributed to the caller.
//
// HTTP: POST /projects/{id}/comments
// Auth: required
// Body: {"text": "..."}
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var input commentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		writeFail(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	comment, err := h.comments.Add(r.Context(), r.PathValue("id"), userID, input.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, comment)
}

// HandleEdit replaces a comment's text. Only the author may edit.
//
// HTTP: PUT /comments/{id}
// Auth: required
// Body: {"text": "..."}
func (h *CommentHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var input commentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		writeFail(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	comment, err := h.comments.Edit(r.Context(), r.PathValue("id"), userID, input.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, comment)
}

// HandleDelete removes a comment and echoes its last known content.
//
// HTTP: DELETE /comments/{id}
// Auth: required
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	comment, err := h.comments.Delete(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, comment)
}
