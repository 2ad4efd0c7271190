package screen

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/validation"
)

// TaskDetail is the canonical state of the task detail screen. Project is
// the task's parent, when it has one and it could be loaded; its
// task_statuses are the status choices.
type TaskDetail struct {
	Task    models.Task
	Project *models.Project
}

// StatusOptions returns the statuses the task may take, or nil when they
// are unknown.
func (d TaskDetail) StatusOptions() []string {
	if d.Project == nil {
		return nil
	}
	return d.Project.TaskStatuses
}

type TaskDetailScreen struct {
	*Loader[TaskDetail]
	edit *Editor[TaskDetail, TaskDraft, models.TaskPatch]

	api    client.API
	taskID int64
	log    *logrus.Entry
}

func NewTaskDetailScreen(api client.API, tokens client.TokenProvider, taskID int64, log *logrus.Entry) *TaskDetailScreen {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithFields(logrus.Fields{"screen": "task_detail", "task_id": taskID})

	s := &TaskDetailScreen{api: api, taskID: taskID, log: log}
	s.Loader = NewLoader(tokens, s.fetch, "Failed to load task", log)
	s.edit = NewEditor(s.Loader, tokens, EditHooks[TaskDetail, TaskDraft, models.TaskPatch]{
		ToDraft: func(d TaskDetail) TaskDraft {
			return NewTaskDraft(d.Task)
		},
		Validate: s.validate,
		Diff: func(d TaskDetail, draft TaskDraft) (models.TaskPatch, bool) {
			return draft.Patch(d.Task)
		},
		Save:    s.save,
		FailMsg: "Failed to update task",
	}, log)
	return s
}

func (s *TaskDetailScreen) fetch(ctx context.Context, token string) (TaskDetail, error) {
	task, err := s.api.GetTask(ctx, token, s.taskID)
	if err != nil {
		return TaskDetail{}, err
	}
	detail := TaskDetail{Task: *task}
	if task.Project != nil {
		detail.Project = s.parentProject(ctx, token, *task.Project)
	}
	return detail, nil
}

// parentProject loads the status choices. The task is still shown when
// this fails; status membership is then not checked.
func (s *TaskDetailScreen) parentProject(ctx context.Context, token string, id int64) *models.Project {
	project, err := s.api.GetProject(ctx, token, id)
	if err != nil {
		s.log.WithError(err).WithField("project_id", id).Warn("load parent project")
		return nil
	}
	return project
}

func (s *TaskDetailScreen) validate(d TaskDraft) (validation.FieldErrors, error) {
	errs, err := validation.Struct(d)
	if err != nil {
		return nil, err
	}
	if errs.Has("status") {
		return errs, nil
	}
	detail, ok := s.Data()
	if ok && detail.Project != nil && !detail.Project.HasStatus(d.Status) {
		if errs == nil {
			errs = validation.FieldErrors{}
		}
		errs["status"] = ErrUnknownStatus.Error()
	}
	return errs, nil
}

func (s *TaskDetailScreen) save(ctx context.Context, token string, d TaskDetail, patch models.TaskPatch) (TaskDetail, error) {
	task, err := s.api.UpdateTask(ctx, token, d.Task.ID, patch)
	if err != nil {
		return TaskDetail{}, err
	}
	out := TaskDetail{Task: *task, Project: d.Project}
	if task.Project == nil {
		out.Project = nil
	} else if d.Project == nil || d.Project.ID != *task.Project {
		out.Project = s.parentProject(ctx, token, *task.Project)
	}
	return out, nil
}

func (s *TaskDetailScreen) BeginEdit() error {
	return s.edit.BeginEdit()
}

// UpdateDraft edits the draft through fn.
func (s *TaskDetailScreen) UpdateDraft(fn func(*TaskDraft)) error {
	return s.edit.UpdateDraft(func(d *TaskDraft) error {
		fn(d)
		return nil
	})
}

// SetField assigns a draft field by its JSON name.
func (s *TaskDetailScreen) SetField(field, value string) error {
	return s.edit.UpdateDraft(func(d *TaskDraft) error {
		return d.Set(field, value)
	})
}

func (s *TaskDetailScreen) Save(ctx context.Context) error {
	if err := s.edit.Save(ctx); err != nil {
		return fmt.Errorf("save task %d: %w", s.taskID, err)
	}
	return nil
}

func (s *TaskDetailScreen) CancelEdit() error {
	return s.edit.CancelEdit()
}

func (s *TaskDetailScreen) EditState() EditState[TaskDraft] {
	return s.edit.Snapshot()
}
