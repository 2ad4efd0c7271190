package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
)

func seededTaskAPI() *fakeAPI {
	api := newFakeAPI()
	api.projects[1] = models.Project{
		ID:           1,
		Name:         "Launch",
		Description:  "ship it",
		Status:       models.ProjectActive,
		TaskStatuses: []string{"To Do", "In Progress", "Done"},
	}
	api.tasks[10] = models.Task{
		ID:          10,
		Title:       "Write docs",
		Description: "user guide",
		Status:      "To Do",
		Priority:    models.PriorityMedium,
		DueDate:     "2026-11-01T00:00:00Z",
		CreatedAt:   "2026-10-01T00:00:00Z",
		Project:     ptr(int64(1)),
		Tags:        []string{"docs", "launch"},
	}
	return api
}

func loadedTaskScreen(t *testing.T, api *fakeAPI) *TaskDetailScreen {
	t.Helper()
	s := NewTaskDetailScreen(api, tokenOf("tok"), 10, quietLog())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}

func TestTaskDetailLoad(t *testing.T) {
	t.Run("loads task and parent project", func(t *testing.T) {
		api := seededTaskAPI()
		s := loadedTaskScreen(t, api)

		detail, _ := s.Data()
		if detail.Task.Title != "Write docs" {
			t.Errorf("title = %q", detail.Task.Title)
		}
		if detail.Project == nil || detail.Project.ID != 1 {
			t.Fatalf("parent project not loaded: %+v", detail.Project)
		}
		if got := detail.StatusOptions(); len(got) != 3 {
			t.Errorf("status options = %v", got)
		}
	})

	t.Run("parent project failure is not fatal", func(t *testing.T) {
		api := seededTaskAPI()
		api.getProjectErr = errBoom
		s := loadedTaskScreen(t, api)

		detail, _ := s.Data()
		if detail.Project != nil {
			t.Errorf("expected no project, got %+v", detail.Project)
		}
		if detail.StatusOptions() != nil {
			t.Error("expected unknown status options")
		}
	})

	t.Run("missing task", func(t *testing.T) {
		api := newFakeAPI()
		s := NewTaskDetailScreen(api, tokenOf("tok"), 99, quietLog())
		err := s.Load(context.Background())
		if !client.IsNotFound(err) {
			t.Fatalf("Load error = %v, want not found", err)
		}
		if st := s.Snapshot(); st.Error != "Failed to load task" {
			t.Errorf("error = %q", st.Error)
		}
	})
}

func TestTaskDetailEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("begin edit requires data", func(t *testing.T) {
		s := NewTaskDetailScreen(newFakeAPI(), tokenOf("tok"), 10, quietLog())
		if err := s.BeginEdit(); !errors.Is(err, ErrNotReady) {
			t.Fatalf("BeginEdit = %v, want ErrNotReady", err)
		}
		if err := s.SetField("title", "x"); !errors.Is(err, ErrNotEditing) {
			t.Fatalf("SetField = %v, want ErrNotEditing", err)
		}
	})

	t.Run("draft is isolated from canonical data", func(t *testing.T) {
		s := loadedTaskScreen(t, seededTaskAPI())
		if err := s.BeginEdit(); err != nil {
			t.Fatalf("BeginEdit failed: %v", err)
		}
		if err := s.UpdateDraft(func(d *TaskDraft) { d.Tags[0] = "changed" }); err != nil {
			t.Fatalf("UpdateDraft failed: %v", err)
		}
		detail, _ := s.Data()
		if detail.Task.Tags[0] != "docs" {
			t.Errorf("canonical tags mutated: %v", detail.Task.Tags)
		}
	})

	t.Run("validation blocks the request", func(t *testing.T) {
		api := seededTaskAPI()
		s := loadedTaskScreen(t, api)
		_ = s.BeginEdit()
		if err := s.SetField("title", "   "); err != nil {
			t.Fatalf("SetField failed: %v", err)
		}

		err := s.Save(ctx)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Save error = %v, want ValidationError", err)
		}
		if !verr.Fields.Has("title") {
			t.Errorf("field errors = %v, want title", verr.Fields)
		}
		if api.count("UpdateTask") != 0 {
			t.Error("UpdateTask called despite validation errors")
		}
		st := s.EditState()
		if !st.Editing || !st.FieldErrors.Has("title") {
			t.Errorf("edit state = %+v", st)
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		api := seededTaskAPI()
		s := loadedTaskScreen(t, api)
		_ = s.BeginEdit()
		_ = s.SetField("status", "Blocked")

		err := s.Save(ctx)
		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Fields.Has("status") {
			t.Fatalf("Save error = %v, want status field error", err)
		}
		if api.count("UpdateTask") != 0 {
			t.Error("UpdateTask called for unknown status")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		s := loadedTaskScreen(t, seededTaskAPI())
		_ = s.BeginEdit()
		if err := s.SetField("color", "red"); !errors.Is(err, ErrUnknownField) {
			t.Fatalf("SetField = %v, want ErrUnknownField", err)
		}
	})

	t.Run("unchanged draft saves nothing", func(t *testing.T) {
		api := seededTaskAPI()
		s := loadedTaskScreen(t, api)
		_ = s.BeginEdit()
		// same set of tags in another order
		_ = s.SetField("tags", "launch, docs")

		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if api.count("UpdateTask") != 0 {
			t.Error("UpdateTask called for unchanged draft")
		}
		if s.EditState().Editing {
			t.Error("still editing after no-op save")
		}
	})

	t.Run("save sends only changed fields", func(t *testing.T) {
		api := seededTaskAPI()
		s := loadedTaskScreen(t, api)
		_ = s.BeginEdit()
		_ = s.SetField("status", "Done")
		_ = s.SetField("priority", "HIGH")

		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		patch := api.lastTaskPatch
		if patch == nil {
			t.Fatal("no patch sent")
		}
		if patch.Status == nil || *patch.Status != "Done" {
			t.Errorf("status patch = %v", patch.Status)
		}
		if patch.Priority == nil || *patch.Priority != models.PriorityHigh {
			t.Errorf("priority patch = %v", patch.Priority)
		}
		if patch.Title != nil || patch.Description != nil || patch.Tags != nil || patch.DueDate != nil {
			t.Errorf("unchanged fields sent: %+v", patch)
		}

		detail, _ := s.Data()
		if detail.Task.Status != "Done" || detail.Task.Priority != models.PriorityHigh {
			t.Errorf("canonical task not replaced: %+v", detail.Task)
		}
		if detail.Project == nil {
			t.Error("parent project dropped after save")
		}
		st := s.EditState()
		if st.Editing || st.FieldErrors != nil || st.Error != "" {
			t.Errorf("edit state not reset: %+v", st)
		}
	})

	t.Run("failed save keeps the draft", func(t *testing.T) {
		api := seededTaskAPI()
		api.updateTaskErr = &client.APIError{StatusCode: 503}
		s := loadedTaskScreen(t, api)
		_ = s.BeginEdit()
		_ = s.SetField("title", "Write better docs")

		err := s.Save(ctx)
		if !client.IsRetryable(err) {
			t.Fatalf("Save error = %v, want retryable APIError", err)
		}
		st := s.EditState()
		if !st.Editing || st.Saving {
			t.Errorf("edit state = %+v, want editing and not saving", st)
		}
		if st.Draft.Title != "Write better docs" {
			t.Errorf("draft lost: %q", st.Draft.Title)
		}
		if st.Error != "Failed to update task" {
			t.Errorf("error = %q", st.Error)
		}
		detail, _ := s.Data()
		if detail.Task.Title != "Write docs" {
			t.Errorf("canonical task changed on failure: %q", detail.Task.Title)
		}
	})

	t.Run("missing token keeps the draft", func(t *testing.T) {
		token := "tok"
		api := seededTaskAPI()
		s := NewTaskDetailScreen(api, client.TokenFunc(func(context.Context) (string, error) {
			return token, nil
		}), 10, quietLog())
		if err := s.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		_ = s.BeginEdit()
		_ = s.SetField("title", "New")
		token = ""

		if err := s.Save(ctx); !errors.Is(err, client.ErrMissingToken) {
			t.Fatalf("Save error = %v, want ErrMissingToken", err)
		}
		if api.count("UpdateTask") != 0 {
			t.Error("UpdateTask called without token")
		}
		st := s.EditState()
		if !st.Editing || st.Error != MsgAuthRequired {
			t.Errorf("edit state = %+v", st)
		}
	})

	t.Run("cancel discards the draft", func(t *testing.T) {
		s := loadedTaskScreen(t, seededTaskAPI())
		_ = s.BeginEdit()
		_ = s.SetField("title", "scratch")
		if err := s.CancelEdit(); err != nil {
			t.Fatalf("CancelEdit failed: %v", err)
		}
		_ = s.BeginEdit()
		if got := s.EditState().Draft.Title; got != "Write docs" {
			t.Errorf("draft title = %q, want canonical title", got)
		}
	})
}

func TestTaskDraftPatch(t *testing.T) {
	task := models.Task{
		Title:      "a",
		Priority:   models.PriorityLow,
		AssignedTo: ptr("user-1"),
		Tags:       []string{"x"},
	}

	d := NewTaskDraft(task)
	d.AssignedTo = ""
	d.Tags = nil
	patch, changed := d.Patch(task)
	if !changed {
		t.Fatal("expected a change")
	}
	if patch.AssignedTo == nil || *patch.AssignedTo != "" {
		t.Errorf("assigned_to patch = %v, want empty string", patch.AssignedTo)
	}
	if patch.Tags == nil || len(*patch.Tags) != 0 || *patch.Tags == nil {
		t.Errorf("tags patch = %v, want empty list", patch.Tags)
	}
}
