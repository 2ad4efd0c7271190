package screen

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
)

// InvitesScreen lists pending invites and resolves them. Each invite has
// its own in-flight flag, so several invites can be answered at once while
// the two actions on one invite exclude each other.
type InvitesScreen struct {
	*Loader[[]models.PendingInvite]

	api    client.InviteClient
	tokens client.TokenProvider
	log    *logrus.Entry

	mu       sync.Mutex
	inFlight map[int64]models.InviteResponse
	errs     map[int64]string
}

func NewInvitesScreen(api client.InviteClient, tokens client.TokenProvider, log *logrus.Entry) *InvitesScreen {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("screen", "invites")
	fetch := func(ctx context.Context, token string) ([]models.PendingInvite, error) {
		return api.ListPendingInvites(ctx, token)
	}
	return &InvitesScreen{
		Loader:   NewLoader(tokens, fetch, "Failed to load invites", log),
		api:      api,
		tokens:   tokens,
		log:      log,
		inFlight: make(map[int64]models.InviteResponse),
		errs:     make(map[int64]string),
	}
}

func (s *InvitesScreen) Accept(ctx context.Context, inviteID int64) error {
	return s.respond(ctx, inviteID, models.InviteAccept)
}

func (s *InvitesScreen) Decline(ctx context.Context, inviteID int64) error {
	return s.respond(ctx, inviteID, models.InviteDecline)
}

func (s *InvitesScreen) respond(ctx context.Context, inviteID int64, response models.InviteResponse) error {
	invites, ok := s.Data()
	if !ok {
		return ErrNotReady
	}
	if !slices.ContainsFunc(invites, func(inv models.PendingInvite) bool { return inv.InviteID == inviteID }) {
		return fmt.Errorf("%w: %d", ErrInviteUnknown, inviteID)
	}

	s.mu.Lock()
	if _, busy := s.inFlight[inviteID]; busy {
		s.mu.Unlock()
		return ErrInviteBusy
	}
	s.inFlight[inviteID] = response
	delete(s.errs, inviteID)
	s.mu.Unlock()

	log := s.log.WithFields(logrus.Fields{"invite_id": inviteID, "response": response})

	token, err := s.tokens.Token(ctx)
	if err == nil && token == "" {
		err = client.ErrMissingToken
	}
	if err != nil {
		log.WithError(err).Warn("no session token")
		s.fail(inviteID, MsgAuthRequired)
		return fmt.Errorf("get token: %w", err)
	}

	if _, err := s.api.RespondToInvite(ctx, token, inviteID, response); err != nil {
		msg := fmt.Sprintf("Failed to %s invite", response)
		log.WithError(err).Error(msg)
		s.fail(inviteID, msg)
		return err
	}

	// The invite leaves the list before its busy flag clears, so it never
	// shows as idle while still listed.
	err = s.Mutate(func(list *[]models.PendingInvite) {
		*list = slices.DeleteFunc(slices.Clone(*list), func(inv models.PendingInvite) bool {
			return inv.InviteID == inviteID
		})
	})
	s.mu.Lock()
	delete(s.inFlight, inviteID)
	s.mu.Unlock()
	if err != nil && !errors.Is(err, ErrClosed) {
		return err
	}
	log.Info("invite resolved")
	return nil
}

func (s *InvitesScreen) fail(inviteID int64, msg string) {
	s.mu.Lock()
	delete(s.inFlight, inviteID)
	s.errs[inviteID] = msg
	s.mu.Unlock()
}

// Busy reports whether either action is in flight for the invite; both
// of its buttons are disabled while it is.
func (s *InvitesScreen) Busy(inviteID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[inviteID]
	return busy
}

// Action returns the response in flight for the invite.
func (s *InvitesScreen) Action(inviteID int64) (models.InviteResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.inFlight[inviteID]
	return r, ok
}

// Error returns the message of the invite's last failed response.
func (s *InvitesScreen) Error(inviteID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[inviteID]
}
