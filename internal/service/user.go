package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// UserService exposes the read-only user listings.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Get retrieves a user by internal ID, falling back to the GitHub login.
// Profile URLs built from a login keep working without the caller knowing
// the internal ID.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	return s.users.GetUserByLogin(ctx, id)
}

// List returns all users. No users at all is a failure response per the
// empty-is-error convention.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperror.EmptyResult("There are no users.")
	}
	return users, nil
}
