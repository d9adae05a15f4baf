package service

import (
	"context"
	"log/slog"

	"github.com/sakif/toolshed/internal/apperror"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// CatalogStore bundles the repositories behind the group/category listings.
type CatalogStore interface {
	repository.GroupRepository
	repository.CategoryRepository
	repository.ProjectRepository
}

// CatalogService serves the group and category read paths. Both are plain
// classifications of projects, so they share a service.
type CatalogService struct {
	store  CatalogStore
	logger *slog.Logger
}

func NewCatalogService(store CatalogStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// Groups returns all groups.
func (s *CatalogService) Groups(ctx context.Context) ([]model.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, apperror.EmptyResult("There are no groups.")
	}
	return groups, nil
}

// Group returns a single group with its member projects attached.
func (s *CatalogService) Group(ctx context.Context, id string) (*model.Group, error) {
	group, err := s.store.GetGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}

	projects, err := s.store.ProjectsByGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Projects = projects
	return group, nil
}

// Categories returns all categories.
func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, apperror.EmptyResult("There are no categories.")
	}
	return categories, nil
}

// Category returns a single category with its member projects attached.
func (s *CatalogService) Category(ctx context.Context, id string) (*model.Category, error) {
	category, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	projects, err := s.store.ProjectsByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Projects = projects
	return category, nil
}
