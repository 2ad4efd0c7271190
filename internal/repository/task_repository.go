package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TWRT/taskflow-client/internal/models"
)

const taskColumns = `id, title, description, status, priority, due_date, created_at, project_id, assigned_to, tags, created_by`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, req models.CreateTask, createdBy string) (*models.Task, error) {
	tags, err := encodeList(req.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	query := `
	INSERT INTO tasks (title, description, status, priority, due_date, created_at, project_id, assigned_to, tags, created_by)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		req.Title,
		req.Description,
		req.Status,
		req.Priority,
		req.DueDate,
		models.FormatTimestamp(time.Now()),
		nullInt(req.Project),
		nullString(req.AssignedTo),
		tags,
		createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

// Update writes the set fields of patch. An empty assigned_to unassigns
// the task.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.Project != nil {
		add("project_id", *patch.Project)
	}
	if patch.AssignedTo != nil {
		if *patch.AssignedTo == "" {
			add("assigned_to", nil)
		} else {
			add("assigned_to", *patch.AssignedTo)
		}
	}
	if patch.Tags != nil {
		tags, err := encodeList(*patch.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		add("tags", tags)
	}

	if len(sets) > 0 {
		query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		result, err := r.db.ExecContext(ctx, query, append(args, id)...)
		if err != nil {
			return nil, fmt.Errorf("update task %d: %w", id, err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
	}
	return r.Get(ctx, id)
}

// ListPersonal returns tasks outside any project that userID created or
// is assigned to.
func (r *TaskRepository) ListPersonal(ctx context.Context, userID string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
        WHERE project_id IS NULL AND (created_by = ? OR assigned_to = ?)
        ORDER BY id`
	return r.list(ctx, query, userID, userID)
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY id`
	return r.list(ctx, query, projectID)
}

// ListForMember returns the tasks of every project userID belongs to.
func (r *TaskRepository) ListForMember(ctx context.Context, userID string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
        WHERE project_id IN (SELECT project_id FROM project_members WHERE user_id = ?)
        ORDER BY id`
	return r.list(ctx, query, userID)
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(s scanner) (models.Task, error) {
	var t models.Task
	var project sql.NullInt64
	var assignee sql.NullString
	var tags string
	err := s.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.CreatedAt,
		&project,
		&assignee,
		&tags,
		&t.CreatedBy,
	)
	if err != nil {
		return models.Task{}, err
	}
	if project.Valid {
		t.Project = &project.Int64
	}
	if assignee.Valid {
		t.AssignedTo = &assignee.String
	}
	if t.Tags, err = decodeList(tags); err != nil {
		return models.Task{}, fmt.Errorf("decode tags of task %d: %w", t.ID, err)
	}
	return t, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil || *v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
