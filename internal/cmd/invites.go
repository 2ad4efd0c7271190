package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/screen"
)

func (c *cli) invitesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invites",
		Short: "List, send and answer project invites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screen.NewInvitesScreen(c.app.api, c.app.tokens, c.app.log)
			defer s.Close()
			if err := s.Load(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), s.Snapshot().Error, err)
			}
			invites, _ := s.Data()
			printInvites(cmd.OutOrStdout(), invites)
			return nil
		},
	}
	cmd.AddCommand(
		c.inviteSendCmd(),
		c.inviteRespondCmd(models.InviteAccept),
		c.inviteRespondCmd(models.InviteDecline),
	)
	return cmd
}

func (c *cli) inviteSendCmd() *cobra.Command {
	var (
		req  models.Invite
		role string
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Invite a user to a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = models.Role(strings.ToLower(role))
			form := screen.NewInviteForm(c.app.api, c.app.tokens, c.app.log)
			inv, err := form.Submit(cmd.Context(), req)
			if err != nil {
				return screenError(cmd.ErrOrStderr(), form.Snapshot().Error, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invited %s to project %d as %s\n", inv.Email, inv.ProjectID, inv.Role)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "email of the user to invite")
	f.Int64Var(&req.ProjectID, "project", 0, "project id")
	f.StringVar(&role, "role", string(models.RoleMember), "member or admin")
	return cmd
}

// inviteRespondCmd loads the pending list first so only invites the user
// can see are answered.
func (c *cli) inviteRespondCmd(response models.InviteResponse) *cobra.Command {
	verb := string(response)
	return &cobra.Command{
		Use:   verb + " <invite-id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a pending invite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s := screen.NewInvitesScreen(c.app.api, c.app.tokens, c.app.log)
			defer s.Close()
			if err := s.Load(cmd.Context()); err != nil {
				return screenError(cmd.ErrOrStderr(), s.Snapshot().Error, err)
			}
			if response == models.InviteAccept {
				err = s.Accept(cmd.Context(), id)
			} else {
				err = s.Decline(cmd.Context(), id)
			}
			if err != nil {
				return screenError(cmd.ErrOrStderr(), s.Error(id), err)
			}
			remaining, _ := s.Data()
			fmt.Fprintf(cmd.OutOrStdout(), "Invite %d %sd, %d pending\n", id, verb, len(remaining))
			return nil
		},
	}
}
