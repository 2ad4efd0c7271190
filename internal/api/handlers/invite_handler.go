package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/service"
)

type InviteHandler struct {
	inviteService *service.InviteService
	log           *logrus.Entry
}

func NewInviteHandler(inviteService *service.InviteService, log *logrus.Entry) *InviteHandler {
	return &InviteHandler{inviteService: inviteService, log: log}
}

func (h *InviteHandler) InviteUser(c *gin.Context) {
	var req models.Invite
	if !bind(c, &req) {
		return
	}
	invite, err := h.inviteService.InviteUser(c.Request.Context(), caller(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, invite)
}

func (h *InviteHandler) ListPendingInvites(c *gin.Context) {
	invites, err := h.inviteService.ListPendingInvites(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.InvitesEnvelope{Invites: invites})
}

func (h *InviteHandler) RespondToInvite(c *gin.Context) {
	var req models.RespondToInvite
	if !bind(c, &req) {
		return
	}
	ack, err := h.inviteService.RespondToInvite(c.Request.Context(), caller(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ack)
}
