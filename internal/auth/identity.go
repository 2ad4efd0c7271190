package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the user a bearer token speaks for.
type Identity struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// ParseIdentity reads the user from a bearer token. With a secret the token
// must be a valid HS256 JWT. Without one, JWT claims are read unverified
// and any other non-empty token is used as the user id.
func ParseIdentity(token string, secret []byte) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if len(secret) > 0 {
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	} else if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{UserID: token}, nil
	}

	id := Identity{
		UserID:    claimString(claims, "sub"),
		Email:     claimString(claims, "email"),
		FirstName: claimString(claims, "given_name"),
		LastName:  claimString(claims, "family_name"),
	}
	if id.UserID == "" {
		return Identity{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	return id, nil
}

// SignToken mints an HS256 token for id, for local development against
// the dev server and for tests.
func SignToken(id Identity, secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": id.UserID,
		"exp": time.Now().Add(ttl).Unix(),
	}
	if id.Email != "" {
		claims["email"] = id.Email
	}
	if id.FirstName != "" {
		claims["given_name"] = id.FirstName
	}
	if id.LastName != "" {
		claims["family_name"] = id.LastName
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
