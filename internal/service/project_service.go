package service

import (
	"context"
	"fmt"

	"github.com/TWRT/taskflow-client/internal/auth"
	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/repository"
)

type ProjectService struct {
	projects *repository.ProjectRepository
}

func NewProjectService(projects *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) ListUserProjects(ctx context.Context, caller auth.Identity) ([]models.Project, error) {
	return s.projects.ListForUser(ctx, caller.UserID)
}

func (s *ProjectService) ListBasicProjects(ctx context.Context, caller auth.Identity) ([]models.BasicProject, error) {
	return s.projects.ListBasicForUser(ctx, caller.UserID)
}

// GetProject returns the project when the caller is a member.
func (s *ProjectService) GetProject(ctx context.Context, caller auth.Identity, id int64) (*models.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := project.Member(caller.UserID); !ok {
		return nil, fmt.Errorf("project %d: %w", id, ErrForbidden)
	}
	return project, nil
}

// CreateProject stores the project with the caller as owner.
func (s *ProjectService) CreateProject(ctx context.Context, caller auth.Identity, req models.CreateProject) (*models.Project, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.projects.Create(ctx, req, member(caller, models.RoleOwner))
}

// UpdateProject applies patch; only owners and admins may edit.
func (s *ProjectService) UpdateProject(ctx context.Context, caller auth.Identity, id int64, patch models.ProjectPatch) (*models.Project, error) {
	if _, err := s.projects.Get(ctx, id); err != nil {
		return nil, err
	}
	role, ok, err := s.projects.MemberRole(ctx, id, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !ok || role == models.RoleMember {
		return nil, fmt.Errorf("update project %d: %w", id, ErrForbidden)
	}
	if err := validate(patch); err != nil {
		return nil, err
	}
	return s.projects.Update(ctx, id, patch)
}
