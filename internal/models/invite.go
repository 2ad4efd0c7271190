package models

// Invite is the body of POST /invites/invite_user/ and its echo.
type Invite struct {
	Email     string `json:"email" validate:"required,email"`
	ProjectID int64  `json:"project_id" validate:"required,gt=0"`
	Role      Role   `json:"role" validate:"required,oneof=member admin"`
}

type PendingInvite struct {
	InviteID    int64  `json:"invite_id"`
	ProjectName string `json:"project_name"`
	TeamName    string `json:"team_name"`
	Role        Role   `json:"role"`
	InvitedAt   string `json:"invited_at"`
}

type InviteResponse string

const (
	InviteAccept  InviteResponse = "accept"
	InviteDecline InviteResponse = "decline"
)

func (r InviteResponse) Valid() bool {
	return r == InviteAccept || r == InviteDecline
}

type RespondToInvite struct {
	InviteID int64          `json:"invite_id"`
	Response InviteResponse `json:"response"`
}

type Ack struct {
	Message string `json:"message"`
}
