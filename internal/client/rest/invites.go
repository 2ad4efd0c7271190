package rest

import (
	"context"
	"fmt"

	"github.com/TWRT/taskflow-client/internal/models"
)

func (c *Client) InviteUser(ctx context.Context, token string, invite models.Invite) (*models.Invite, error) {
	var echo models.Invite
	if err := c.post(ctx, "/invites/invite_user/", token, invite, &echo); err != nil {
		return nil, fmt.Errorf("invite %s: %w", invite.Email, err)
	}
	return &echo, nil
}

func (c *Client) ListPendingInvites(ctx context.Context, token string) ([]models.PendingInvite, error) {
	var env models.InvitesEnvelope
	if err := c.get(ctx, "/invites/pending_invites/", token, &env); err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}
	return env.Invites, nil
}

func (c *Client) RespondToInvite(ctx context.Context, token string, inviteID int64, response models.InviteResponse) (*models.Ack, error) {
	body := models.RespondToInvite{InviteID: inviteID, Response: response}
	var ack models.Ack
	if err := c.post(ctx, "/invites/respond_to_invite/", token, body, &ack); err != nil {
		return nil, fmt.Errorf("%s invite %d: %w", response, inviteID, err)
	}
	return &ack, nil
}
