package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	log            *logrus.Entry
}

func NewProjectHandler(projectService *service.ProjectService, log *logrus.Entry) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, log: log}
}

func (h *ProjectHandler) ListUserProjects(c *gin.Context) {
	projects, err := h.projectService.ListUserProjects(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectsEnvelope{Projects: projects})
}

func (h *ProjectHandler) ListBasicProjects(c *gin.Context) {
	projects, err := h.projectService.ListBasicProjects(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.BasicProjectsEnvelope{Projects: projects})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	project, err := h.projectService.GetProject(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch models.ProjectPatch
	if !bind(c, &patch) {
		return
	}
	project, err := h.projectService.UpdateProject(c.Request.Context(), caller(c), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req models.CreateProject
	if !bind(c, &req) {
		return
	}
	project, err := h.projectService.CreateProject(c.Request.Context(), caller(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}
