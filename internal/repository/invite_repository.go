package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TWRT/taskflow-client/internal/models"
)

const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteDeclined = "declined"
)

// ErrInviteResolved is returned when an invite was already accepted or
// declined.
var ErrInviteResolved = errors.New("invite already resolved")

// InviteRecord is an invite row.
type InviteRecord struct {
	ID        int64
	ProjectID int64
	Email     string
	Role      models.Role
	TeamName  string
	InvitedBy string
	Status    string
	InvitedAt string
}

type InviteRepository struct {
	db *sql.DB
}

func NewInviteRepository(db *sql.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(ctx context.Context, inv models.Invite, invitedBy, teamName string) (int64, error) {
	query := `
	INSERT INTO invites (project_id, email, role, team_name, invited_by, status, invited_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		inv.ProjectID,
		inv.Email,
		inv.Role,
		teamName,
		invitedBy,
		InvitePending,
		models.FormatTimestamp(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("create invite: %w", err)
	}
	return result.LastInsertId()
}

// HasPending reports whether email already has a pending invite to the
// project.
func (r *InviteRepository) HasPending(ctx context.Context, projectID int64, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM invites WHERE project_id = ? AND email = ? AND status = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, query, projectID, email, InvitePending).Scan(&n); err != nil {
		return false, fmt.Errorf("check pending invite: %w", err)
	}
	return n > 0, nil
}

// ListPending returns the pending invites addressed to email, oldest first.
func (r *InviteRepository) ListPending(ctx context.Context, email string) ([]models.PendingInvite, error) {
	query := `
	SELECT i.id, p.name, i.team_name, i.role, i.invited_at
        FROM invites i
        JOIN projects p ON p.id = i.project_id
        WHERE i.email = ? AND i.status = ?
        ORDER BY i.id
	`
	rows, err := r.db.QueryContext(ctx, query, email, InvitePending)
	if err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}
	defer rows.Close()

	invites := []models.PendingInvite{}
	for rows.Next() {
		var inv models.PendingInvite
		if err := rows.Scan(&inv.InviteID, &inv.ProjectName, &inv.TeamName, &inv.Role, &inv.InvitedAt); err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *InviteRepository) Get(ctx context.Context, id int64) (*InviteRecord, error) {
	query := `
	SELECT id, project_id, email, role, team_name, invited_by, status, invited_at
        FROM invites WHERE id = ?
	`
	var rec InviteRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.ProjectID,
		&rec.Email,
		&rec.Role,
		&rec.TeamName,
		&rec.InvitedBy,
		&rec.Status,
		&rec.InvitedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invite %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get invite %d: %w", id, err)
	}
	return &rec, nil
}

// Resolve marks a pending invite accepted or declined. Accepting adds
// member to the project with the invite's role.
func (r *InviteRepository) Resolve(ctx context.Context, id int64, response models.InviteResponse, member models.Member) error {
	status := InviteDeclined
	if response == models.InviteAccept {
		status = InviteAccepted
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin resolve invite: %w", err)
	}
	defer tx.Rollback()

	var projectID int64
	var role models.Role
	var current string
	err = tx.QueryRowContext(ctx, `SELECT project_id, role, status FROM invites WHERE id = ?`, id).
		Scan(&projectID, &role, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("invite %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get invite %d: %w", id, err)
	}
	if current != InvitePending {
		return fmt.Errorf("invite %d: %w", id, ErrInviteResolved)
	}

	query := `UPDATE invites SET status = ?, responded_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, status, models.FormatTimestamp(time.Now()), id); err != nil {
		return fmt.Errorf("resolve invite %d: %w", id, err)
	}
	if status == InviteAccepted {
		member.Role = role
		if err := insertMember(ctx, tx, projectID, member); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit resolve invite: %w", err)
	}
	return nil
}
