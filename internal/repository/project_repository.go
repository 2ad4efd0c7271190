package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TWRT/taskflow-client/internal/models"
)

type ProjectRepository struct {
	db    *sql.DB
	tasks *TaskRepository
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db, tasks: NewTaskRepository(db)}
}

// Create inserts the project and makes owner its first member.
func (r *ProjectRepository) Create(ctx context.Context, req models.CreateProject, owner models.Member) (*models.Project, error) {
	statuses, err := encodeList(req.TaskStatuses)
	if err != nil {
		return nil, fmt.Errorf("encode task statuses: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create project: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO projects (name, description, status, task_statuses, created_at, due_date)
        VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		req.Name,
		req.Description,
		req.Status,
		statuses,
		models.FormatTimestamp(time.Now()),
		req.DueDate,
	)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	owner.Role = models.RoleOwner
	if err := insertMember(ctx, tx, id, owner); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create project: %w", err)
	}
	return r.Get(ctx, id)
}

// Get returns the project with its tasks and members.
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*models.Project, error) {
	query := `
	SELECT id, name, description, status, task_statuses, created_at, due_date
        FROM projects WHERE id = ?
	`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	if err := r.fill(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListForUser returns the projects userID is a member of, oldest first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]models.Project, error) {
	query := `
	SELECT p.id, p.name, p.description, p.status, p.task_statuses, p.created_at, p.due_date
        FROM projects p
        JOIN project_members m ON m.project_id = p.id
        WHERE m.user_id = ?
        ORDER BY p.id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	for i := range projects {
		if err := r.fill(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *ProjectRepository) ListBasicForUser(ctx context.Context, userID string) ([]models.BasicProject, error) {
	query := `
	SELECT p.id, p.name FROM projects p
        JOIN project_members m ON m.project_id = p.id
        WHERE m.user_id = ?
        ORDER BY p.name
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list basic projects: %w", err)
	}
	defer rows.Close()

	out := []models.BasicProject{}
	for rows.Next() {
		var p models.BasicProject
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan basic project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update applies patch to the stored project and writes the result back.
func (r *ProjectRepository) Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}
	next := patch.Apply(*current)

	statuses, err := encodeList(next.TaskStatuses)
	if err != nil {
		return nil, fmt.Errorf("encode task statuses: %w", err)
	}
	query := `
	UPDATE projects SET name = ?, description = ?, status = ?, task_statuses = ?, due_date = ?
        WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		next.Name, next.Description, next.Status, statuses, next.DueDate, id)
	if err != nil {
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return r.Get(ctx, id)
}

// MemberRole returns userID's role in the project; ok is false for
// non-members.
func (r *ProjectRepository) MemberRole(ctx context.Context, projectID int64, userID string) (role models.Role, ok bool, err error) {
	query := `SELECT role FROM project_members WHERE project_id = ? AND user_id = ?`
	err = r.db.QueryRowContext(ctx, query, projectID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get member role: %w", err)
	}
	return role, true, nil
}

func (r *ProjectRepository) Members(ctx context.Context, projectID int64) ([]models.Member, error) {
	query := `
	SELECT user_id, first_name, last_name, email, role, image_url
        FROM project_members WHERE project_id = ? ORDER BY rowid
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.FirstName, &m.LastName, &m.Email, &m.Role, &m.ImageURL); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *ProjectRepository) fill(ctx context.Context, p *models.Project) error {
	tasks, err := r.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return err
	}
	members, err := r.Members(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Tasks = tasks
	p.Members = members
	return nil
}

func insertMember(ctx context.Context, db execer, projectID int64, m models.Member) error {
	query := `
	INSERT OR IGNORE INTO project_members (project_id, user_id, first_name, last_name, email, role, image_url)
        VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query, projectID, m.UserID, m.FirstName, m.LastName, m.Email, m.Role, m.ImageURL)
	if err != nil {
		return fmt.Errorf("add member to project %d: %w", projectID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (models.Project, error) {
	var p models.Project
	var statuses string
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &statuses, &p.CreatedAt, &p.DueDate); err != nil {
		return models.Project{}, err
	}
	list, err := decodeList(statuses)
	if err != nil {
		return models.Project{}, fmt.Errorf("decode task statuses of project %d: %w", p.ID, err)
	}
	p.TaskStatuses = list
	return p, nil
}
