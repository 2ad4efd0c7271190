// Package api serves the task API over sqlite for local development and
// contract tests.
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/api/handlers"
	"github.com/TWRT/taskflow-client/internal/repository"
	"github.com/TWRT/taskflow-client/internal/service"
)

type Options struct {
	// JWTSecret, when set, makes the server verify token signatures.
	JWTSecret string
	Log       *logrus.Entry
}

func SetupRouter(db *sql.DB, opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "api")

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	projectHandler := handlers.NewProjectHandler(service.NewProjectService(projectRepo), log)
	taskHandler := handlers.NewTaskHandler(service.NewTaskService(taskRepo, projectRepo), log)
	inviteHandler := handlers.NewInviteHandler(service.NewInviteService(inviteRepo, projectRepo), log)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := router.Group("/", handlers.Authenticate([]byte(opts.JWTSecret), log))

	projects := authed.Group("/projects")
	{
		projects.GET("/user_projects", projectHandler.ListUserProjects)
		projects.GET("/basic_projects", projectHandler.ListBasicProjects)
		projects.POST("/", projectHandler.CreateProject)
		projects.GET("/:id/", projectHandler.GetProject)
		projects.PATCH("/:id/", projectHandler.UpdateProject)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.GET("/user_visible_tasks/", taskHandler.ListVisibleTasks)
		tasks.GET("/personal_tasks/", taskHandler.ListPersonalTasks)
		tasks.GET("/project_tasks/", taskHandler.ListProjectTasks)
		tasks.POST("/", taskHandler.CreateTask)
		tasks.GET("/:id/", taskHandler.GetTask)
		tasks.PATCH("/:id/", taskHandler.UpdateTask)
	}

	invites := authed.Group("/invites")
	{
		invites.POST("/invite_user/", inviteHandler.InviteUser)
		invites.GET("/pending_invites/", inviteHandler.ListPendingInvites)
		invites.POST("/respond_to_invite/", inviteHandler.RespondToInvite)
	}

	return router
}

// requestLogger logs every request under its X-Request-ID. Requests
// without one are given a new id, echoed in the response.
func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Next()
		log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
		}).Info("request")
	}
}
