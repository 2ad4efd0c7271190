package rest

import (
	"context"
	"fmt"

	"github.com/TWRT/taskflow-client/internal/models"
)

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d/", id)
}

func (c *Client) ListVisibleTasks(ctx context.Context, token string) (*models.TasksResponse, error) {
	var resp models.TasksResponse
	if err := c.get(ctx, "/tasks/user_visible_tasks/", token, &resp); err != nil {
		return nil, fmt.Errorf("list visible tasks: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListPersonalTasks(ctx context.Context, token string) ([]models.Task, error) {
	var env models.TasksEnvelope
	if err := c.get(ctx, "/tasks/personal_tasks/", token, &env); err != nil {
		return nil, fmt.Errorf("list personal tasks: %w", err)
	}
	return env.Tasks, nil
}

func (c *Client) ListProjectTasks(ctx context.Context, token string) ([]models.Task, error) {
	var env models.TasksEnvelope
	if err := c.get(ctx, "/tasks/project_tasks/", token, &env); err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	return env.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, token string, id int64) (*models.Task, error) {
	var task models.Task
	if err := c.get(ctx, taskPath(id), token, &task); err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, token string, id int64, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := c.patch(ctx, taskPath(id), token, patch, &task); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, token string, req models.CreateTask) (*models.Task, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	var task models.Task
	if err := c.post(ctx, "/tasks/", token, req, &task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}
