package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/toolshed/internal/auth"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/service"
)

// ProjectHandler serves the project catalog: listings, submission, the
// approval transition, the audit trail, and the score update trigger.
type ProjectHandler struct {
	projects *service.ProjectService
	logger   *slog.Logger

	// keys + updateKeyHash guard the score update trigger. When the hash is
	// empty the trigger is open (the original deployment ran it from a local
	// cron); when set, callers must present the matching plaintext key.
	keys          *auth.KeyService
	updateKeyHash string
}

func NewProjectHandler(projects *service.ProjectService, keys *auth.KeyService, updateKeyHash string, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:      projects,
		keys:          keys,
		updateKeyHash: updateKeyHash,
		logger:        logger,
	}
}

// HandleList returns all projects.
//
// HTTP: GET /projects?order=name|newest|popular
//
// The order query parameter selects the sort; anything unrecognised (or
// absent) falls back to alphabetical by name.
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context(), r.URL.Query().Get("order"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, projects)
}

// HandleGet returns a single project by ID.
//
// HTTP: GET /projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, project)
}

// HandleSubmit accepts a new project submission.
//
// HTTP: POST /projects
// Auth: required
// Body: {"url": "...", "name": "...", "description": "..."}
//
// Only the URL is mandatory — name and description override what the
// importer reads from the repository when present.
func (h *ProjectHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var input model.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid project submission JSON", slog.String("error", err.Error()))
		writeFail(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	project, err := h.projects.Submit(r.Context(), input, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, project)
}

// HandleApprove flips a pending project to approved.
//
// HTTP: POST /projects/{id}/approve
// Auth: required
func (h *ProjectHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, project)
}

// HandleLogs returns a single project's audit trail.
//
// HTTP: GET /projects/{id}/logs
func (h *ProjectHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.projects.Logs(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, logs)
}

// HandleAllLogs returns the audit trail across all projects.
//
// HTTP: GET /projects/logs
func (h *ProjectHandler) HandleAllLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.projects.AllLogs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, logs)
}

// HandleUpdateScores refreshes every project's score from the external
// metrics source.
//
// HTTP: GET /projects/update
//
// When an update key hash is configured, the caller must send the plaintext
// key in the X-Update-Key header. With no hash configured the trigger is
// open, matching a deployment where only a local scheduler can reach it.
func (h *ProjectHandler) HandleUpdateScores(w http.ResponseWriter, r *http.Request) {
	if h.updateKeyHash != "" {
		if err := h.keys.Verify(h.updateKeyHash, r.Header.Get("X-Update-Key")); err != nil {
			h.logger.Warn("score update rejected: bad key")
			writeFail(w, http.StatusUnauthorized, "Invalid update key.")
			return
		}
	}

	updated, err := h.projects.UpdateScores(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]int{"updated": updated})
}
