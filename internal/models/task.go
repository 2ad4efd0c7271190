package models

import (
	"slices"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the accepted priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// Weight orders priorities for display; unknown values weigh zero.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status,omitempty"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"due_date"`
	CreatedAt   string   `json:"created_at"`
	Project     *int64   `json:"project,omitempty"`
	AssignedTo  *string  `json:"assigned_to,omitempty"`
	Tags        []string `json:"tags"`
	CreatedBy   string   `json:"created_by,omitempty"`
}

// DueTime parses DueDate. ok is false when the date is empty or malformed.
func (t Task) DueTime() (time.Time, bool) {
	return ParseTimestamp(t.DueDate)
}

func (t Task) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(t.CreatedAt)
}

// CreateTask is the body of POST /tasks/. The server assigns id,
// created_at and created_by.
type CreateTask struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Status      string   `json:"status,omitempty"`
	Priority    Priority `json:"priority" validate:"required,oneof=low medium high"`
	DueDate     string   `json:"due_date,omitempty" validate:"omitempty,timestamp"`
	Project     *int64   `json:"project,omitempty"`
	AssignedTo  *string  `json:"assigned_to,omitempty"`
	Tags        []string `json:"tags"`
}

// TaskPatch is the body of PATCH /tasks/{id}/. Only set fields are sent;
// an empty due_date clears the date.
type TaskPatch struct {
	Title       *string   `json:"title,omitempty" validate:"omitnil,notblank"`
	Description *string   `json:"description,omitempty" validate:"omitnil,notblank"`
	Status      *string   `json:"status,omitempty" validate:"omitnil,notblank"`
	Priority    *Priority `json:"priority,omitempty" validate:"omitnil,oneof=low medium high"`
	DueDate     *string   `json:"due_date,omitempty" validate:"omitempty,timestamp"`
	Project     *int64    `json:"project,omitempty" validate:"omitnil,gt=0"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitnil,dive,notblank"`
}

func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// Apply returns a copy of t with the patch fields written over it.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Project != nil {
		id := *p.Project
		t.Project = &id
	}
	if p.AssignedTo != nil {
		user := *p.AssignedTo
		t.AssignedTo = &user
	}
	if p.Tags != nil {
		t.Tags = slices.Clone(*p.Tags)
	}
	return t
}
