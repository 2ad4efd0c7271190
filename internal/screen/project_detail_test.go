package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/view"
)

func seededProjectAPI() *fakeAPI {
	api := newFakeAPI()
	api.projects[1] = models.Project{
		ID:           1,
		Name:         "Launch",
		Description:  "ship it",
		Status:       models.ProjectActive,
		TaskStatuses: []string{"To Do", "Review", "Done"},
		Tasks: []models.Task{
			{ID: 1, Title: "a", Status: "To Do", Priority: models.PriorityLow, DueDate: "2026-11-03"},
			{ID: 2, Title: "b", Status: "Review", Priority: models.PriorityHigh, DueDate: "2026-11-01"},
			{ID: 3, Title: "c", Status: "Review", Priority: models.PriorityMedium, DueDate: "2026-11-02"},
		},
		Members: []models.Member{{UserID: "u1", Email: "a@example.com", Role: models.RoleOwner}},
	}
	return api
}

func loadedProjectScreen(t *testing.T, api *fakeAPI) *ProjectDetailScreen {
	t.Helper()
	s := NewProjectDetailScreen(api, tokenOf("tok"), 1, quietLog())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestProjectDetailView(t *testing.T) {
	s := loadedProjectScreen(t, seededProjectAPI())

	if got := ids(s.VisibleTasks()); len(got) != 3 || got[0] != 2 || got[1] != 3 || got[2] != 1 {
		t.Errorf("default order = %v, want [2 3 1]", got)
	}

	if err := s.SelectStatus("Review"); err != nil {
		t.Fatalf("SelectStatus failed: %v", err)
	}
	s.SetSort(view.SortPriority)
	if got := ids(s.VisibleTasks()); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("filtered order = %v, want [2 3]", got)
	}

	if err := s.SelectStatus("Blocked"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("SelectStatus(Blocked) = %v, want ErrUnknownStatus", err)
	}
	if got := s.Params().Status; got != "Review" {
		t.Errorf("status after rejected select = %q", got)
	}

	opts := s.StatusOptions()
	if len(opts) != 4 || opts[0] != view.StatusAll {
		t.Errorf("status options = %v", opts)
	}
}

func TestProjectDetailSelectBeforeLoad(t *testing.T) {
	s := NewProjectDetailScreen(newFakeAPI(), tokenOf("tok"), 1, quietLog())
	if err := s.SelectStatus("Review"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("SelectStatus = %v, want ErrNotReady", err)
	}
	if err := s.SelectStatus(view.StatusAll); err != nil {
		t.Fatalf("SelectStatus(all) = %v", err)
	}
	if s.VisibleTasks() != nil {
		t.Error("expected no tasks before load")
	}
}

func TestProjectDetailEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("empty statuses fail validation", func(t *testing.T) {
		api := seededProjectAPI()
		s := loadedProjectScreen(t, api)
		_ = s.BeginEdit()
		_ = s.SetField("task_statuses", " , ")

		err := s.Save(ctx)
		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Fields.Has("task_statuses") {
			t.Fatalf("Save error = %v, want task_statuses field error", err)
		}
		if api.count("UpdateProject") != 0 {
			t.Error("UpdateProject called despite validation errors")
		}
	})

	t.Run("reordered statuses are a change", func(t *testing.T) {
		api := seededProjectAPI()
		s := loadedProjectScreen(t, api)
		_ = s.BeginEdit()
		_ = s.UpdateDraft(func(d *ProjectDraft) { d.MoveTaskStatus("Done", 0) })

		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		patch := api.lastProjectPatch
		if patch == nil || patch.TaskStatuses == nil {
			t.Fatalf("task_statuses not sent: %+v", patch)
		}
		want := []string{"Done", "To Do", "Review"}
		got := *patch.TaskStatuses
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("task_statuses = %v, want %v", got, want)
			}
		}
		if patch.Name != nil || patch.Status != nil {
			t.Errorf("unchanged fields sent: %+v", patch)
		}
	})

	t.Run("unchanged draft saves nothing", func(t *testing.T) {
		api := seededProjectAPI()
		s := loadedProjectScreen(t, api)
		_ = s.BeginEdit()
		_ = s.UpdateDraft(func(d *ProjectDraft) { d.AddTaskStatus("Review") })

		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if api.count("UpdateProject") != 0 {
			t.Error("UpdateProject called for unchanged draft")
		}
		if s.EditState().Editing {
			t.Error("still editing")
		}
	})

	t.Run("removing the selected status resets the filter", func(t *testing.T) {
		api := seededProjectAPI()
		s := loadedProjectScreen(t, api)
		if err := s.SelectStatus("Review"); err != nil {
			t.Fatalf("SelectStatus failed: %v", err)
		}
		_ = s.BeginEdit()
		_ = s.UpdateDraft(func(d *ProjectDraft) { d.RemoveTaskStatus("Review") })

		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if got := s.Params().Status; got != view.StatusAll {
			t.Errorf("status filter = %q, want all", got)
		}
		project, _ := s.Data()
		if len(project.TaskStatuses) != 2 {
			t.Errorf("task statuses = %v", project.TaskStatuses)
		}
		if len(project.Tasks) != 3 || len(project.Members) != 1 {
			t.Errorf("tasks or members dropped after save: %+v", project)
		}
	})

	t.Run("failed save keeps the draft", func(t *testing.T) {
		api := seededProjectAPI()
		api.updateProjErr = errBoom
		s := loadedProjectScreen(t, api)
		_ = s.BeginEdit()
		_ = s.SetField("name", "Relaunch")

		if err := s.Save(ctx); !errors.Is(err, errBoom) {
			t.Fatalf("Save error = %v, want errBoom", err)
		}
		st := s.EditState()
		if !st.Editing || st.Draft.Name != "Relaunch" || st.Error != "Failed to update project" {
			t.Errorf("edit state = %+v", st)
		}
		project, _ := s.Data()
		if project.Name != "Launch" {
			t.Errorf("canonical name = %q", project.Name)
		}
	})
}

func TestProjectDraftStatuses(t *testing.T) {
	d := ProjectDraft{TaskStatuses: []string{"a", "b", "c"}}

	d.AddTaskStatus(" d ")
	d.AddTaskStatus("a")
	d.AddTaskStatus("")
	d.MoveTaskStatus("d", 99)
	d.MoveTaskStatus("c", -1)
	d.RemoveTaskStatus("b")
	d.MoveTaskStatus("missing", 0)

	want := []string{"c", "a", "d"}
	if len(d.TaskStatuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", d.TaskStatuses, want)
	}
	for i := range want {
		if d.TaskStatuses[i] != want[i] {
			t.Fatalf("statuses = %v, want %v", d.TaskStatuses, want)
		}
	}
}
