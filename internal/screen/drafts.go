package screen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/TWRT/taskflow-client/internal/models"
)

// TaskDraft holds the editable fields of a task. An empty AssignedTo means
// unassigned.
type TaskDraft struct {
	Title       string          `json:"title" validate:"notblank"`
	Description string          `json:"description" validate:"notblank"`
	Status      string          `json:"status" validate:"notblank"`
	Priority    models.Priority `json:"priority" validate:"required,oneof=low medium high"`
	DueDate     string          `json:"due_date" validate:"omitempty,timestamp"`
	AssignedTo  string          `json:"assigned_to"`
	Tags        []string        `json:"tags"`
}

func NewTaskDraft(t models.Task) TaskDraft {
	d := TaskDraft{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Tags:        slices.Clone(t.Tags),
	}
	if t.AssignedTo != nil {
		d.AssignedTo = *t.AssignedTo
	}
	return d
}

func (d TaskDraft) Clone() TaskDraft {
	d.Tags = slices.Clone(d.Tags)
	return d
}

// Set assigns a field by its JSON name. Tags take a comma separated list.
func (d *TaskDraft) Set(field, value string) error {
	switch field {
	case "title":
		d.Title = value
	case "description":
		d.Description = value
	case "status":
		d.Status = value
	case "priority":
		d.Priority = models.Priority(strings.ToLower(strings.TrimSpace(value)))
	case "due_date":
		d.DueDate = strings.TrimSpace(value)
	case "assigned_to":
		d.AssignedTo = strings.TrimSpace(value)
	case "tags":
		d.Tags = splitList(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Patch returns the fields of d that differ from t.
func (d TaskDraft) Patch(t models.Task) (models.TaskPatch, bool) {
	var p models.TaskPatch
	if d.Title != t.Title {
		p.Title = &d.Title
	}
	if d.Description != t.Description {
		p.Description = &d.Description
	}
	if d.Status != t.Status {
		p.Status = &d.Status
	}
	if d.Priority != t.Priority {
		p.Priority = &d.Priority
	}
	if d.DueDate != t.DueDate {
		p.DueDate = &d.DueDate
	}
	current := ""
	if t.AssignedTo != nil {
		current = *t.AssignedTo
	}
	if d.AssignedTo != current {
		p.AssignedTo = &d.AssignedTo
	}
	if !sameSet(d.Tags, t.Tags) {
		tags := slices.Clone(d.Tags)
		if tags == nil {
			tags = []string{}
		}
		p.Tags = &tags
	}
	return p, !p.IsEmpty()
}

// ProjectDraft holds the editable fields of a project.
type ProjectDraft struct {
	Name         string               `json:"name" validate:"notblank"`
	Description  string               `json:"description" validate:"notblank"`
	Status       models.ProjectStatus `json:"status" validate:"required,oneof=active completed on_hold"`
	TaskStatuses []string             `json:"task_statuses" validate:"required,min=1,unique,dive,notblank"`
	DueDate      string               `json:"due_date" validate:"omitempty,timestamp"`
}

func NewProjectDraft(p models.Project) ProjectDraft {
	return ProjectDraft{
		Name:         p.Name,
		Description:  p.Description,
		Status:       p.Status,
		TaskStatuses: slices.Clone(p.TaskStatuses),
		DueDate:      p.DueDate,
	}
}

func (d ProjectDraft) Clone() ProjectDraft {
	d.TaskStatuses = slices.Clone(d.TaskStatuses)
	return d
}

func (d *ProjectDraft) Set(field, value string) error {
	switch field {
	case "name":
		d.Name = value
	case "description":
		d.Description = value
	case "status":
		d.Status = models.ProjectStatus(strings.ToLower(strings.TrimSpace(value)))
	case "task_statuses":
		d.TaskStatuses = splitList(value)
	case "due_date":
		d.DueDate = strings.TrimSpace(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// AddTaskStatus appends status unless it is already present.
func (d *ProjectDraft) AddTaskStatus(status string) {
	status = strings.TrimSpace(status)
	if status == "" || slices.Contains(d.TaskStatuses, status) {
		return
	}
	d.TaskStatuses = append(d.TaskStatuses, status)
}

func (d *ProjectDraft) RemoveTaskStatus(status string) {
	d.TaskStatuses = slices.DeleteFunc(d.TaskStatuses, func(s string) bool {
		return s == status
	})
}

// MoveTaskStatus moves status to index to, clamped to the list bounds.
func (d *ProjectDraft) MoveTaskStatus(status string, to int) {
	from := slices.Index(d.TaskStatuses, status)
	if from < 0 {
		return
	}
	to = max(0, min(to, len(d.TaskStatuses)-1))
	d.TaskStatuses = slices.Delete(d.TaskStatuses, from, from+1)
	d.TaskStatuses = slices.Insert(d.TaskStatuses, to, status)
}

// Patch returns the fields of d that differ from p. Task statuses are
// compared in order since the order is the board's column order.
func (d ProjectDraft) Patch(p models.Project) (models.ProjectPatch, bool) {
	var out models.ProjectPatch
	if d.Name != p.Name {
		out.Name = &d.Name
	}
	if d.Description != p.Description {
		out.Description = &d.Description
	}
	if d.Status != p.Status {
		out.Status = &d.Status
	}
	if !slices.Equal(d.TaskStatuses, p.TaskStatuses) {
		statuses := slices.Clone(d.TaskStatuses)
		out.TaskStatuses = &statuses
	}
	if d.DueDate != p.DueDate {
		out.DueDate = &d.DueDate
	}
	return out, !out.IsEmpty()
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func sameSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, s := range a {
		as[s] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, s := range b {
		bs[s] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for s := range as {
		if _, ok := bs[s]; !ok {
			return false
		}
	}
	return true
}
