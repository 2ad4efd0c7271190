package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/auth"
	"github.com/TWRT/taskflow-client/internal/repository"
	"github.com/TWRT/taskflow-client/internal/service"
)

const identityKey = "identity"

// Authenticate reads the bearer token into an auth.Identity. With a secret
// only valid HS256 tokens pass.
func Authenticate(secret []byte, log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		id, err := auth.ParseIdentity(token, secret)
		if err != nil {
			log.WithError(err).Debug("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if id.Email == "" && strings.Contains(id.UserID, "@") {
			id.Email = id.UserID
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// caller returns the identity set by Authenticate.
func caller(c *gin.Context) auth.Identity {
	id, _ := c.Get(identityKey)
	identity, _ := id.(auth.Identity)
	return identity
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON error: " + err.Error()})
		return false
	}
	return true
}

// respondError maps service and repository errors onto status codes.
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalid):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, gin.H{"error": msg})
}
