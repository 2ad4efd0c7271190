package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/validation"
	"github.com/TWRT/taskflow-client/internal/view"
)

// ProjectDetailScreen shows one project with its task board. The status
// filter and sort key apply to the project's tasks.
type ProjectDetailScreen struct {
	*Loader[models.Project]
	edit *Editor[models.Project, ProjectDraft, models.ProjectPatch]

	api       client.API
	projectID int64

	mu     sync.Mutex
	params view.Params
}

func NewProjectDetailScreen(api client.API, tokens client.TokenProvider, projectID int64, log *logrus.Entry) *ProjectDetailScreen {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithFields(logrus.Fields{"screen": "project_detail", "project_id": projectID})

	s := &ProjectDetailScreen{
		api:       api,
		projectID: projectID,
		params:    view.DefaultParams(),
	}
	s.Loader = NewLoader(tokens, s.fetch, "Failed to load project", log)
	s.edit = NewEditor(s.Loader, tokens, EditHooks[models.Project, ProjectDraft, models.ProjectPatch]{
		ToDraft: NewProjectDraft,
		Validate: func(d ProjectDraft) (validation.FieldErrors, error) {
			return validation.Struct(d)
		},
		Diff: func(p models.Project, d ProjectDraft) (models.ProjectPatch, bool) {
			return d.Patch(p)
		},
		Save:    s.save,
		FailMsg: "Failed to update project",
	}, log)
	return s
}

func (s *ProjectDetailScreen) fetch(ctx context.Context, token string) (models.Project, error) {
	project, err := s.api.GetProject(ctx, token, s.projectID)
	if err != nil {
		return models.Project{}, err
	}
	return *project, nil
}

func (s *ProjectDetailScreen) save(ctx context.Context, token string, p models.Project, patch models.ProjectPatch) (models.Project, error) {
	updated, err := s.api.UpdateProject(ctx, token, p.ID, patch)
	if err != nil {
		return models.Project{}, err
	}
	out := *updated
	// A partial response keeps the task list and members already shown.
	if out.Tasks == nil {
		out.Tasks = p.Tasks
	}
	if out.Members == nil {
		out.Members = p.Members
	}
	return out, nil
}

// SelectStatus sets the status filter. It must be view.StatusAll or one of
// the project's task statuses.
func (s *ProjectDetailScreen) SelectStatus(status string) error {
	if status == "" {
		status = view.StatusAll
	}
	if status != view.StatusAll {
		project, ok := s.Data()
		if !ok {
			return ErrNotReady
		}
		if !project.HasStatus(status) {
			return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
		}
	}
	s.mu.Lock()
	s.params.Status = status
	s.mu.Unlock()
	return nil
}

func (s *ProjectDetailScreen) SetSort(key view.SortKey) {
	s.mu.Lock()
	s.params.Sort = key
	s.mu.Unlock()
}

// Params returns the active filter and sort. A selected status that the
// project no longer has reads as view.StatusAll.
func (s *ProjectDetailScreen) Params() view.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paramsLocked()
}

// VisibleTasks returns the project's tasks filtered and sorted for display.
func (s *ProjectDetailScreen) VisibleTasks() []models.Task {
	project, ok := s.Data()
	if !ok {
		return nil
	}
	return view.Apply(project.Tasks, s.Params())
}

func (s *ProjectDetailScreen) StatusOptions() []string {
	project, ok := s.Data()
	if !ok {
		return []string{view.StatusAll}
	}
	return view.StatusOptions(project)
}

func (s *ProjectDetailScreen) BeginEdit() error {
	return s.edit.BeginEdit()
}

func (s *ProjectDetailScreen) UpdateDraft(fn func(*ProjectDraft)) error {
	return s.edit.UpdateDraft(func(d *ProjectDraft) error {
		fn(d)
		return nil
	})
}

func (s *ProjectDetailScreen) SetField(field, value string) error {
	return s.edit.UpdateDraft(func(d *ProjectDraft) error {
		return d.Set(field, value)
	})
}

// Save stores the draft. When the saved statuses drop the selected filter
// status, the filter goes back to view.StatusAll.
func (s *ProjectDetailScreen) Save(ctx context.Context) error {
	if err := s.edit.Save(ctx); err != nil {
		return fmt.Errorf("save project %d: %w", s.projectID, err)
	}
	s.mu.Lock()
	s.params = s.paramsLocked()
	s.mu.Unlock()
	return nil
}

func (s *ProjectDetailScreen) paramsLocked() view.Params {
	p := s.params
	if p.Status != view.StatusAll {
		if project, ok := s.Data(); ok && !project.HasStatus(p.Status) {
			p.Status = view.StatusAll
		}
	}
	return p
}

func (s *ProjectDetailScreen) CancelEdit() error {
	return s.edit.CancelEdit()
}

func (s *ProjectDetailScreen) EditState() EditState[ProjectDraft] {
	return s.edit.Snapshot()
}
