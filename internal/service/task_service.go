package service

import (
	"context"
	"fmt"

	"github.com/TWRT/taskflow-client/internal/auth"
	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/repository"
)

type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
}

func NewTaskService(tasks *repository.TaskRepository, projects *repository.ProjectRepository) *TaskService {
	return &TaskService{tasks: tasks, projects: projects}
}

// ListVisibleTasks returns the caller's personal tasks and every project
// they belong to with its tasks.
func (s *TaskService) ListVisibleTasks(ctx context.Context, caller auth.Identity) (*models.TasksResponse, error) {
	personal, err := s.tasks.ListPersonal(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.ListForUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return &models.TasksResponse{PersonalTasks: personal, ProjectTasks: projects}, nil
}

func (s *TaskService) ListPersonalTasks(ctx context.Context, caller auth.Identity) ([]models.Task, error) {
	return s.tasks.ListPersonal(ctx, caller.UserID)
}

func (s *TaskService) ListProjectTasks(ctx context.Context, caller auth.Identity) ([]models.Task, error) {
	return s.tasks.ListForMember(ctx, caller.UserID)
}

func (s *TaskService) GetTask(ctx context.Context, caller auth.Identity, id int64) (*models.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisible(ctx, caller, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, caller auth.Identity, req models.CreateTask) (*models.Task, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Project != nil {
		project, err := s.memberProject(ctx, caller, *req.Project)
		if err != nil {
			return nil, err
		}
		if req.Status == "" && len(project.TaskStatuses) > 0 {
			req.Status = project.TaskStatuses[0]
		}
		if !project.HasStatus(req.Status) {
			return nil, fmt.Errorf("%w: status: %q is not a status of project %d", ErrInvalid, req.Status, project.ID)
		}
	}
	return s.tasks.Create(ctx, req, caller.UserID)
}

// UpdateTask applies patch. A status must belong to the task's project,
// the new one when the patch moves the task.
func (s *TaskService) UpdateTask(ctx context.Context, caller auth.Identity, id int64, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisible(ctx, caller, task); err != nil {
		return nil, err
	}
	if err := validate(patch); err != nil {
		return nil, err
	}

	next := patch.Apply(*task)
	if next.Project != nil {
		project, err := s.memberProject(ctx, caller, *next.Project)
		if err != nil {
			return nil, err
		}
		if next.Status != "" && !project.HasStatus(next.Status) {
			return nil, fmt.Errorf("%w: status: %q is not a status of project %d", ErrInvalid, next.Status, project.ID)
		}
	}
	return s.tasks.Update(ctx, id, patch)
}

func (s *TaskService) checkVisible(ctx context.Context, caller auth.Identity, task *models.Task) error {
	if task.Project != nil {
		_, ok, err := s.projects.MemberRole(ctx, *task.Project, caller.UserID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	} else if task.CreatedBy == caller.UserID {
		return nil
	}
	if task.AssignedTo != nil && *task.AssignedTo == caller.UserID {
		return nil
	}
	return fmt.Errorf("task %d: %w", task.ID, ErrForbidden)
}

func (s *TaskService) memberProject(ctx context.Context, caller auth.Identity, id int64) (*models.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := project.Member(caller.UserID); !ok {
		return nil, fmt.Errorf("project %d: %w", id, ErrForbidden)
	}
	return project, nil
}
