// Package service holds the dev API server's rules: who may see and change
// which project, task and invite.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TWRT/taskflow-client/internal/auth"
	"github.com/TWRT/taskflow-client/internal/models"
	"github.com/TWRT/taskflow-client/internal/validation"
)

var (
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid request")
)

// member turns the caller into a project member record.
func member(caller auth.Identity, role models.Role) models.Member {
	return models.Member{
		UserID:    caller.UserID,
		FirstName: caller.FirstName,
		LastName:  caller.LastName,
		Email:     caller.Email,
		Role:      role,
	}
}

func sameEmail(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// validate checks a request body's tags; field errors become ErrInvalid.
func validate(v any) error {
	fieldErrs, err := validation.Struct(v)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, fieldErrs.Error())
	}
	return nil
}
