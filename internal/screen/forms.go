package screen

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/validation"
)

type FormState struct {
	Submitting  bool
	FieldErrors validation.FieldErrors
	Error       string
}

// Form validates a create request and sends it. Invalid requests never
// reach the network.
type Form[R, E any] struct {
	tokens  client.TokenProvider
	prepare func(*R)
	submit  func(ctx context.Context, token string, req R) (E, error)
	failMsg string
	log     *logrus.Entry

	mu sync.Mutex
	st FormState
}

func (f *Form[R, E]) Submit(ctx context.Context, req R) (E, error) {
	var zero E
	if f.prepare != nil {
		f.prepare(&req)
	}

	f.mu.Lock()
	if f.st.Submitting {
		f.mu.Unlock()
		return zero, ErrSaveInFlight
	}
	fieldErrs, err := validation.Struct(req)
	if err != nil {
		f.mu.Unlock()
		return zero, err
	}
	if len(fieldErrs) > 0 {
		f.st = FormState{FieldErrors: fieldErrs}
		f.mu.Unlock()
		return zero, &ValidationError{Fields: fieldErrs}
	}
	f.st = FormState{Submitting: true}
	f.mu.Unlock()

	token, err := f.tokens.Token(ctx)
	if err == nil && token == "" {
		err = client.ErrMissingToken
	}
	if err != nil {
		f.log.WithError(err).Warn("no session token")
		f.finish(MsgAuthRequired)
		return zero, err
	}

	out, err := f.submit(ctx, token, req)
	if err != nil {
		f.log.WithError(err).Error(f.failMsg)
		f.finish(f.failMsg)
		return zero, err
	}
	f.finish("")
	return out, nil
}

func (f *Form[R, E]) finish(msg string) {
	f.mu.Lock()
	f.st.Submitting = false
	f.st.Error = msg
	f.mu.Unlock()
}

func (f *Form[R, E]) Snapshot() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st
}

func NewTaskForm(api client.TaskClient, tokens client.TokenProvider, log *logrus.Entry) *Form[models.CreateTask, *models.Task] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Form[models.CreateTask, *models.Task]{
		tokens: tokens,
		prepare: func(req *models.CreateTask) {
			if req.Tags == nil {
				req.Tags = []string{}
			}
		},
		submit:  api.CreateTask,
		failMsg: "Failed to create task",
		log:     log.WithField("screen", "create_task"),
	}
}

// NewProjectForm creates projects; an omitted status means active and
// omitted task statuses take models.DefaultTaskStatuses.
func NewProjectForm(api client.ProjectClient, tokens client.TokenProvider, log *logrus.Entry) *Form[models.CreateProject, *models.Project] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Form[models.CreateProject, *models.Project]{
		tokens: tokens,
		prepare: func(req *models.CreateProject) {
			if req.Status == "" {
				req.Status = models.ProjectActive
			}
			if len(req.TaskStatuses) == 0 {
				req.TaskStatuses = append([]string(nil), models.DefaultTaskStatuses...)
			}
		},
		submit:  api.CreateProject,
		failMsg: "Failed to create project",
		log:     log.WithField("screen", "create_project"),
	}
}

// NewInviteForm invites a user by email; the role defaults to member.
func NewInviteForm(api client.InviteClient, tokens client.TokenProvider, log *logrus.Entry) *Form[models.Invite, *models.Invite] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Form[models.Invite, *models.Invite]{
		tokens: tokens,
		prepare: func(req *models.Invite) {
			if req.Role == "" {
				req.Role = models.RoleMember
			}
		},
		submit:  api.InviteUser,
		failMsg: "Failed to send invite",
		log:     log.WithField("screen", "invite_user"),
	}
}
