package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// CommentStore bundles the repositories the comment service needs.
type CommentStore interface {
	repository.CommentRepository
	repository.ProjectRepository
	repository.UserRepository
}

// CommentService handles comment creation and owner-gated moderation.
type CommentService struct {
	store  CommentStore
	logger *slog.Logger

	// deleteAny restores the legacy behavior where any authenticated caller
	// may delete a comment (moderator-style delete handled upstream). The
	// default is false: deletion requires the same ownership as editing.
	deleteAny bool
}

func NewCommentService(store CommentStore, deleteAny bool, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:     store,
		deleteAny: deleteAny,
		logger:    logger,
	}
}

// Add creates a comment on a project, stamped with the current time and
// attributed to the caller.
func (s *CommentService) Add(ctx context.Context, projectID, userID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperror.Unauthorized("User not logged in")
	}

	project, err := s.store.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Text:      text,
		ProjectID: project.ID,
		UserID:    user.ID,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("id", comment.ID),
		slog.String("projectID", project.ID),
		slog.String("user", user.Login),
	)
	return comment, nil
}

// Edit replaces a comment's text.
//
// The ownership check runs before any mutation: a caller who is not the
// author gets Forbidden and the stored text is untouched.
func (s *CommentService) Edit(ctx context.Context, commentID, userID, text string) (*model.Comment, error) {
	comment, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != userID {
		return nil, apperror.Forbidden("You are not authorized to edit this comment.")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	if err := s.store.UpdateCommentText(ctx, commentID, text); err != nil {
		return nil, err
	}
	comment.Text = text

	s.logger.Info("comment edited", slog.String("id", commentID))
	return comment, nil
}

// Delete removes a comment and returns its last known content for the
// response envelope. Ownership is enforced unless the service was configured
// to allow moderator-style deletes (see NewCommentService).
func (s *CommentService) Delete(ctx context.Context, commentID, userID string) (*model.Comment, error) {
	comment, err := s.store.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !s.deleteAny && comment.UserID != userID {
		return nil, apperror.Forbidden("You are not authorized to delete this comment.")
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return nil, err
	}

	s.logger.Info("comment deleted", slog.String("id", commentID))
	return comment, nil
}

// ForProject returns a project's comments. A project with no comments yields
// a failure response per the empty-is-error convention.
func (s *CommentService) ForProject(ctx context.Context, projectID string) ([]model.Comment, error) {
	if _, err := s.store.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	comments, err := s.store.CommentsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, apperror.EmptyResult("This project has no comments.")
	}
	return comments, nil
}

// ForUser returns a user's comments.
func (s *CommentService) ForUser(ctx context.Context, userID string) ([]model.Comment, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	comments, err := s.store.CommentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, apperror.EmptyResult("This user has no comments.")
	}
	return comments, nil
}
