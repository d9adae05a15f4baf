// Package service contains the business logic layer of the application.
//
// Layering follows the usual three layers:
//
//	Handler (HTTP)      → parses requests, writes the response envelope
//	Service (business)  → validates, enforces ownership rules, orchestrates
//	Repository (data)   → reads/writes SQLite
//
// Services accept primitives and models, never *http.Request, and return
// apperror values, never status codes. The identity of the caller is passed
// explicitly into every mutating call — there is no ambient "current user"
// lookup, which keeps every rule testable without a simulated web session.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/importer"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

const (
	MaxProjectNameLength = 100
	MaxCommentLength     = 10000
)

// ProjectStore bundles the repositories the project service needs. The
// sqlite.DB satisfies all of them with one value.
type ProjectStore interface {
	repository.ProjectRepository
	repository.UserRepository
	repository.LikeRepository
	repository.LogRepository
}

// ProjectService handles the submission workflow, listing queries, the
// approval transition, and the score update trigger.
type ProjectService struct {
	store    ProjectStore
	importer importer.Importer
	updater  importer.Updater
	logger   *slog.Logger
}

func NewProjectService(store ProjectStore, imp importer.Importer, upd importer.Updater, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		store:    store,
		importer: imp,
		updater:  upd,
		logger:   logger,
	}
}

// Submit runs the submission workflow.
//
// The caller's identity must resolve to an existing user; the importer builds
// the project's descriptive fields from the submitted URL; a project whose
// name already exists is rejected with a conflict and no row is created. The
// new project starts pending (status=false) and is owned by the submitter.
func (s *ProjectService) Submit(ctx context.Context, input model.ProjectInput, userID string) (*model.Project, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, apperror.ValidationFailed("url", "project URL is required")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		// An unresolvable identity on a mutation is an auth failure, not a
		// missing resource.
		return nil, apperror.Unauthorized("User not logged in")
	}

	project, err := s.importer.BuildProject(ctx, input)
	if err != nil {
		return nil, err
	}

	if len(project.Name) > MaxProjectNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("project name must be %d characters or less", MaxProjectNameLength))
	}

	project.SubmittedByID = user.ID
	project.Status = false // pending until a moderation action approves it

	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	if err := s.store.AppendLog(ctx, &model.Log{
		ProjectID: project.ID,
		Event:     "imported",
		Score:     project.Score,
	}); err != nil {
		// The project row exists; a missing audit row is not worth failing
		// the submission over.
		s.logger.Warn("failed to append import log",
			slog.String("projectID", project.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("project submitted",
		slog.String("id", project.ID),
		slog.String("name", project.Name),
		slog.String("submittedBy", user.Login),
	)

	return project, nil
}

// Get retrieves a single project with its like count attached.
func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountProjectLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	project.LikeCount = count

	return project, nil
}

// List returns all projects in the requested ordering ("name", "newest" or
// "popular"; anything else falls back to alphabetical). An empty store is a
// failure response per the API's empty-is-error convention.
func (s *ProjectService) List(ctx context.Context, order string) ([]model.Project, error) {
	var repoOrder repository.ProjectOrder
	switch order {
	case "newest":
		repoOrder = repository.OrderNewest
	case "popular":
		repoOrder = repository.OrderPopular
	default:
		repoOrder = repository.OrderName
	}

	projects, err := s.store.ListProjects(ctx, repoOrder)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, apperror.EmptyResult("There are no projects.")
	}
	return projects, nil
}

// Submissions returns the user's approved projects.
func (s *ProjectService) Submissions(ctx context.Context, userID string) ([]model.Project, error) {
	return s.submissionsByStatus(ctx, userID, true, "No submissions.")
}

// PendingSubmissions returns the user's not-yet-approved projects.
//
// Together with Submissions this partitions the user's full submission set:
// every project is in exactly one of the two listings, decided by status.
func (s *ProjectService) PendingSubmissions(ctx context.Context, userID string) ([]model.Project, error) {
	return s.submissionsByStatus(ctx, userID, false, "No pending submissions.")
}

func (s *ProjectService) submissionsByStatus(ctx context.Context, userID string, approved bool, emptyMsg string) ([]model.Project, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	projects, err := s.store.ProjectsBySubmitter(ctx, userID, approved)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, apperror.EmptyResult(emptyMsg)
	}
	return projects, nil
}

// Approve flips a pending project to approved. The transition is one-way:
// approving an already-approved project is a no-op, and nothing ever sets
// status back to pending.
func (s *ProjectService) Approve(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.Status {
		return project, nil
	}

	if err := s.store.SetProjectStatus(ctx, id, true); err != nil {
		return nil, err
	}
	project.Status = true

	s.logger.Info("project approved",
		slog.String("id", project.ID),
		slog.String("name", project.Name),
	)
	return project, nil
}

// UpdateScores asks the updater for fresh external metrics on every project
// and records the recomputed score plus an audit log row per project.
//
// Invoked on demand by the update trigger endpoint — this core does no
// scheduling. A failure on one project doesn't abort the rest; the count of
// successfully updated projects is returned.
func (s *ProjectService) UpdateScores(ctx context.Context) (int, error) {
	projects, err := s.store.ListProjects(ctx, repository.OrderName)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range projects {
		score, err := s.updater.FetchScore(ctx, p.URL)
		if err != nil {
			s.logger.Warn("score update failed",
				slog.String("projectID", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := s.store.SetProjectScore(ctx, p.ID, score); err != nil {
			s.logger.Warn("score write failed",
				slog.String("projectID", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := s.store.AppendLog(ctx, &model.Log{
			ProjectID: p.ID,
			Event:     "updated",
			Score:     score,
		}); err != nil {
			s.logger.Warn("failed to append update log",
				slog.String("projectID", p.ID),
				slog.String("error", err.Error()),
			)
		}
		updated++
	}

	s.logger.Info("project scores updated",
		slog.Int("total", len(projects)),
		slog.Int("updated", updated),
	)
	return updated, nil
}

// Logs returns a project's audit trail.
func (s *ProjectService) Logs(ctx context.Context, projectID string) ([]model.Log, error) {
	if _, err := s.store.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	logs, err := s.store.LogsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, apperror.EmptyResult("This project has no logs.")
	}
	return logs, nil
}

// AllLogs returns the full audit trail across projects.
func (s *ProjectService) AllLogs(ctx context.Context) ([]model.Log, error) {
	logs, err := s.store.AllLogs(ctx)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, apperror.EmptyResult("There are no logs.")
	}
	return logs, nil
}
