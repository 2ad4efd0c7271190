package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
	log         *logrus.Entry
}

func NewTaskHandler(taskService *service.TaskService, log *logrus.Entry) *TaskHandler {
	return &TaskHandler{taskService: taskService, log: log}
}

func (h *TaskHandler) ListVisibleTasks(c *gin.Context) {
	resp, err := h.taskService.ListVisibleTasks(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandler) ListPersonalTasks(c *gin.Context) {
	tasks, err := h.taskService.ListPersonalTasks(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.TasksEnvelope{Tasks: tasks})
}

func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	tasks, err := h.taskService.ListProjectTasks(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.TasksEnvelope{Tasks: tasks})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch models.TaskPatch
	if !bind(c, &patch) {
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), caller(c), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req models.CreateTask
	if !bind(c, &req) {
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), caller(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}
