package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/TWRT/taskflow-client/internal/auth"
	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/repository"
)

type InviteService struct {
	invites  *repository.InviteRepository
	projects *repository.ProjectRepository
}

func NewInviteService(invites *repository.InviteRepository, projects *repository.ProjectRepository) *InviteService {
	return &InviteService{invites: invites, projects: projects}
}

// InviteUser invites an email address to a project. Only owners and admins
// may invite.
func (s *InviteService) InviteUser(ctx context.Context, caller auth.Identity, inv models.Invite) (*models.Invite, error) {
	if err := validate(inv); err != nil {
		return nil, err
	}

	project, err := s.projects.Get(ctx, inv.ProjectID)
	if err != nil {
		return nil, err
	}
	inviter, ok := project.Member(caller.UserID)
	if !ok || inviter.Role == models.RoleMember {
		return nil, fmt.Errorf("invite to project %d: %w", inv.ProjectID, ErrForbidden)
	}
	for _, m := range project.Members {
		if sameEmail(m.Email, inv.Email) {
			return nil, fmt.Errorf("%w: %s is already a member", ErrInvalid, inv.Email)
		}
	}
	pending, err := s.invites.HasPending(ctx, inv.ProjectID, inv.Email)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: %s is already invited", ErrInvalid, inv.Email)
	}

	if _, err := s.invites.Create(ctx, inv, caller.UserID, inviter.DisplayName()); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListPendingInvites returns invites addressed to the caller's email.
func (s *InviteService) ListPendingInvites(ctx context.Context, caller auth.Identity) ([]models.PendingInvite, error) {
	if caller.Email == "" {
		return []models.PendingInvite{}, nil
	}
	return s.invites.ListPending(ctx, caller.Email)
}

func (s *InviteService) RespondToInvite(ctx context.Context, caller auth.Identity, req models.RespondToInvite) (*models.Ack, error) {
	if !req.Response.Valid() {
		return nil, fmt.Errorf("%w: response must be accept or decline", ErrInvalid)
	}
	rec, err := s.invites.Get(ctx, req.InviteID)
	if err != nil {
		return nil, err
	}
	// Invites addressed to someone else are reported as missing.
	if !sameEmail(rec.Email, caller.Email) {
		return nil, fmt.Errorf("invite %d: %w", req.InviteID, repository.ErrNotFound)
	}

	err = s.invites.Resolve(ctx, req.InviteID, req.Response, member(caller, rec.Role))
	if errors.Is(err, repository.ErrInviteResolved) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err != nil {
		return nil, err
	}
	if req.Response == models.InviteAccept {
		return &models.Ack{Message: "Invite accepted"}, nil
	}
	return &models.Ack{Message: "Invite declined"}, nil
}
