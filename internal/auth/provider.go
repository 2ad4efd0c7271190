// Package auth provides the session token sources used by the client and
// the identity parsing used by the dev API server.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
)

// Static serves a fixed token, typically from configuration.
type Static struct {
	mu    sync.RWMutex
	token string
}

func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Set replaces the token; an empty token signs the session out.
func (s *Static) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// ExpiryGuard hides JWTs that are expired, or will expire within skew, so
// that screens report "authentication required" instead of sending a token
// the server will reject. Opaque tokens pass through unchanged.
type ExpiryGuard struct {
	next client.TokenProvider
	skew time.Duration
	now  func() time.Time
	log  *logrus.Entry
}

func NewExpiryGuard(next client.TokenProvider, skew time.Duration, log *logrus.Entry) *ExpiryGuard {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ExpiryGuard{
		next: next,
		skew: skew,
		now:  time.Now,
		log:  log.WithField("component", "auth"),
	}
}

func (g *ExpiryGuard) Token(ctx context.Context) (string, error) {
	token, err := g.next.Token(ctx)
	if err != nil || token == "" {
		return token, err
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return token, nil
	}
	if !claims.VerifyExpiresAt(g.now().Add(g.skew).Unix(), false) {
		g.log.Debug("session token expired")
		return "", nil
	}
	return token, nil
}
