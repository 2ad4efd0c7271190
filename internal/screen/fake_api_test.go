package screen

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
)

var errBoom = errors.New("boom")

// fakeAPI is an in-memory client.API that counts calls. Err fields make
// the matching call fail.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	projects map[int64]models.Project
	tasks    map[int64]models.Task
	visible  models.TasksResponse
	invites  []models.PendingInvite

	getTaskErr     error
	getProjectErr  error
	updateTaskErr  error
	updateProjErr  error
	listVisibleErr error
	listInvitesErr error
	respondErr     map[int64]error
	createErr      error

	lastTaskPatch    *models.TaskPatch
	lastProjectPatch *models.ProjectPatch
	lastToken        string

	// block, when set, is received from before ListVisibleTasks returns.
	block chan struct{}
	// respondStarted and respondBlock gate RespondToInvite the same way.
	respondStarted chan int64
	respondBlock   chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:      make(map[string]int),
		projects:   make(map[int64]models.Project),
		tasks:      make(map[int64]models.Task),
		respondErr: make(map[int64]error),
	}
}

var _ client.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	f.lastToken = token
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) ListUserProjects(ctx context.Context, token string) ([]models.Project, error) {
	f.record("ListUserProjects", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeAPI) ListBasicProjects(ctx context.Context, token string) ([]models.BasicProject, error) {
	f.record("ListBasicProjects", token)
	return nil, nil
}

func (f *fakeAPI) GetProject(ctx context.Context, token string, id int64) (*models.Project, error) {
	f.record("GetProject", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getProjectErr != nil {
		return nil, f.getProjectErr
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Method: "GET", Path: "/projects/"}
	}
	return &p, nil
}

func (f *fakeAPI) UpdateProject(ctx context.Context, token string, id int64, patch models.ProjectPatch) (*models.Project, error) {
	f.record("UpdateProject", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastProjectPatch = &patch
	if f.updateProjErr != nil {
		return nil, f.updateProjErr
	}
	p := patch.Apply(f.projects[id])
	f.projects[id] = p
	return &p, nil
}

func (f *fakeAPI) CreateProject(ctx context.Context, token string, req models.CreateProject) (*models.Project, error) {
	f.record("CreateProject", token)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := models.Project{
		ID:           int64(len(f.projects) + 1),
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		TaskStatuses: req.TaskStatuses,
	}
	f.projects[p.ID] = p
	return &p, nil
}

func (f *fakeAPI) ListVisibleTasks(ctx context.Context, token string) (*models.TasksResponse, error) {
	f.record("ListVisibleTasks", token)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listVisibleErr != nil {
		return nil, f.listVisibleErr
	}
	resp := f.visible
	return &resp, nil
}

func (f *fakeAPI) ListPersonalTasks(ctx context.Context, token string) ([]models.Task, error) {
	f.record("ListPersonalTasks", token)
	return nil, nil
}

func (f *fakeAPI) ListProjectTasks(ctx context.Context, token string) ([]models.Task, error) {
	f.record("ListProjectTasks", token)
	return nil, nil
}

func (f *fakeAPI) GetTask(ctx context.Context, token string, id int64) (*models.Task, error) {
	f.record("GetTask", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getTaskErr != nil {
		return nil, f.getTaskErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Method: "GET", Path: "/tasks/"}
	}
	return &t, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, token string, id int64, patch models.TaskPatch) (*models.Task, error) {
	f.record("UpdateTask", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTaskPatch = &patch
	if f.updateTaskErr != nil {
		return nil, f.updateTaskErr
	}
	t := patch.Apply(f.tasks[id])
	f.tasks[id] = t
	return &t, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, token string, req models.CreateTask) (*models.Task, error) {
	f.record("CreateTask", token)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := models.Task{
		ID:          int64(len(f.tasks) + 1),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Tags:        req.Tags,
	}
	f.tasks[t.ID] = t
	return &t, nil
}

func (f *fakeAPI) InviteUser(ctx context.Context, token string, invite models.Invite) (*models.Invite, error) {
	f.record("InviteUser", token)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &invite, nil
}

func (f *fakeAPI) ListPendingInvites(ctx context.Context, token string) ([]models.PendingInvite, error) {
	f.record("ListPendingInvites", token)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listInvitesErr != nil {
		return nil, f.listInvitesErr
	}
	return append([]models.PendingInvite(nil), f.invites...), nil
}

func (f *fakeAPI) RespondToInvite(ctx context.Context, token string, inviteID int64, response models.InviteResponse) (*models.Ack, error) {
	f.record("RespondToInvite", token)
	if f.respondStarted != nil {
		f.respondStarted <- inviteID
	}
	if f.respondBlock != nil {
		<-f.respondBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.respondErr[inviteID]; err != nil {
		return nil, err
	}
	return &models.Ack{Message: "ok"}, nil
}

func tokenOf(s string) client.TokenProvider {
	return client.TokenFunc(func(context.Context) (string, error) {
		return s, nil
	})
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func ptr[T any](v T) *T {
	return &v
}
