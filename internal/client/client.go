package client

import (
	"context"

	"github.com/TWRT/taskflow-client/internal/models"
)

// TokenProvider supplies the bearer token for the current session. An
// empty token with a nil error means the user is signed out.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenProvider.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

type ProjectClient interface {
	ListUserProjects(ctx context.Context, token string) ([]models.Project, error)
	ListBasicProjects(ctx context.Context, token string) ([]models.BasicProject, error)
	GetProject(ctx context.Context, token string, id int64) (*models.Project, error)
	UpdateProject(ctx context.Context, token string, id int64, patch models.ProjectPatch) (*models.Project, error)
	CreateProject(ctx context.Context, token string, project models.CreateProject) (*models.Project, error)
}

type TaskClient interface {
	ListVisibleTasks(ctx context.Context, token string) (*models.TasksResponse, error)
	ListPersonalTasks(ctx context.Context, token string) ([]models.Task, error)
	ListProjectTasks(ctx context.Context, token string) ([]models.Task, error)
	GetTask(ctx context.Context, token string, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, token string, id int64, patch models.TaskPatch) (*models.Task, error)
	CreateTask(ctx context.Context, token string, task models.CreateTask) (*models.Task, error)
}

type InviteClient interface {
	InviteUser(ctx context.Context, token string, invite models.Invite) (*models.Invite, error)
	ListPendingInvites(ctx context.Context, token string) ([]models.PendingInvite, error)
	RespondToInvite(ctx context.Context, token string, inviteID int64, response models.InviteResponse) (*models.Ack, error)
}

// API is the full remote surface used by the screens.
type API interface {
	ProjectClient
	TaskClient
	InviteClient
}
