package rest

import (
	"context"
	"fmt"

	"github.com/TWRT/taskflow-client/internal/models"
)

func projectPath(id int64) string {
	return fmt.Sprintf("/projects/%d/", id)
}

func (c *Client) ListUserProjects(ctx context.Context, token string) ([]models.Project, error) {
	var env models.ProjectsEnvelope
	if err := c.get(ctx, "/projects/user_projects", token, &env); err != nil {
		return nil, fmt.Errorf("list user projects: %w", err)
	}
	return env.Projects, nil
}

func (c *Client) ListBasicProjects(ctx context.Context, token string) ([]models.BasicProject, error) {
	var env models.BasicProjectsEnvelope
	if err := c.get(ctx, "/projects/basic_projects", token, &env); err != nil {
		return nil, fmt.Errorf("list basic projects: %w", err)
	}
	return env.Projects, nil
}

func (c *Client) GetProject(ctx context.Context, token string, id int64) (*models.Project, error) {
	var project models.Project
	if err := c.get(ctx, projectPath(id), token, &project); err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, token string, id int64, patch models.ProjectPatch) (*models.Project, error) {
	var project models.Project
	if err := c.patch(ctx, projectPath(id), token, patch, &project); err != nil {
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, token string, req models.CreateProject) (*models.Project, error) {
	var project models.Project
	if err := c.post(ctx, "/projects/", token, req, &project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &project, nil
}
