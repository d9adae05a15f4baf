package service

import (
	"context"
	"log/slog"

	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// LikeStore bundles the repositories the like service needs.
type LikeStore interface {
	repository.LikeRepository
	repository.ProjectRepository
	repository.UserRepository
}

// LikeService handles like/unlike and the like listings feeding the
// popularity ranking.
type LikeService struct {
	store  LikeStore
	logger *slog.Logger
}

func NewLikeService(store LikeStore, logger *slog.Logger) *LikeService {
	return &LikeService{store: store, logger: logger}
}

// Like records that the caller liked a project. Liking the same project
// twice is a conflict — the store's uniqueness guarantee keeps the count of
// likes equal to the count of distinct users who liked.
func (s *LikeService) Like(ctx context.Context, projectID, userID string) (*model.Like, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperror.Unauthorized("User not logged in")
	}

	project, err := s.store.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	like := &model.Like{
		UserID:    user.ID,
		ProjectID: project.ID,
	}
	if err := s.store.CreateLike(ctx, like); err != nil {
		return nil, err
	}

	s.logger.Info("project liked",
		slog.String("projectID", project.ID),
		slog.String("user", user.Login),
	)
	return like, nil
}

// Unlike deletes a like by ID and returns the removed record. Exactly one
// row goes away; the project's effective like count drops by one.
func (s *LikeService) Unlike(ctx context.Context, likeID string) (*model.Like, error) {
	like, err := s.store.GetLikeByID(ctx, likeID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteLike(ctx, likeID); err != nil {
		return nil, err
	}

	s.logger.Info("project unliked",
		slog.String("likeID", like.ID),
		slog.String("projectID", like.ProjectID),
	)
	return like, nil
}

// ForUser returns the likes a user has given. Zero likes is a failure
// response per the empty-is-error convention.
func (s *LikeService) ForUser(ctx context.Context, userID string) ([]model.Like, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	likes, err := s.store.LikesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(likes) == 0 {
		return nil, apperror.EmptyResult("User has no likes")
	}
	return likes, nil
}

// ForProject returns the likes a project has received.
func (s *LikeService) ForProject(ctx context.Context, projectID string) ([]model.Like, error) {
	if _, err := s.store.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	likes, err := s.store.LikesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(likes) == 0 {
		return nil, apperror.EmptyResult("Project has no likes.")
	}
	return likes, nil
}
