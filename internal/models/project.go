package models

import "slices"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// DefaultTaskStatuses is used for new projects that do not name their own.
var DefaultTaskStatuses = []string{"To Do", "In Progress", "Done"}

type Project struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Status       ProjectStatus `json:"status"`
	TaskStatuses []string      `json:"task_statuses"`
	CreatedAt    string        `json:"created_at"`
	DueDate      string        `json:"due_date,omitempty"`
	Tasks        []Task        `json:"tasks"`
	Members      []Member      `json:"members,omitempty"`
}

// HasStatus reports whether status is one of the project's task statuses.
func (p Project) HasStatus(status string) bool {
	return slices.Contains(p.TaskStatuses, status)
}

// Member returns the member with the given user id.
func (p Project) Member(userID string) (Member, bool) {
	for _, m := range p.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}

type BasicProject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateProject is the body of POST /projects/.
type CreateProject struct {
	Name         string        `json:"name" validate:"required"`
	Description  string        `json:"description" validate:"required"`
	Status       ProjectStatus `json:"status" validate:"required,oneof=active completed on_hold"`
	TaskStatuses []string      `json:"task_statuses" validate:"required,min=1,unique,dive,required"`
	DueDate      string        `json:"due_date,omitempty" validate:"omitempty,timestamp"`
}

// ProjectPatch is the body of PATCH /projects/{id}/.
type ProjectPatch struct {
	Name         *string        `json:"name,omitempty" validate:"omitnil,notblank"`
	Description  *string        `json:"description,omitempty" validate:"omitnil,notblank"`
	Status       *ProjectStatus `json:"status,omitempty" validate:"omitnil,oneof=active completed on_hold"`
	TaskStatuses *[]string      `json:"task_statuses,omitempty" validate:"omitnil,min=1,unique,dive,notblank"`
	DueDate      *string        `json:"due_date,omitempty" validate:"omitempty,timestamp"`
}

func (p ProjectPatch) IsEmpty() bool {
	return p == ProjectPatch{}
}

// Apply returns a copy of pr with the patch fields written over it.
func (p ProjectPatch) Apply(pr Project) Project {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Status != nil {
		pr.Status = *p.Status
	}
	if p.TaskStatuses != nil {
		pr.TaskStatuses = slices.Clone(*p.TaskStatuses)
	}
	if p.DueDate != nil {
		pr.DueDate = *p.DueDate
	}
	return pr
}
