package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/validation"
)

// Draft is an editable copy of an entity's fields.
type Draft[D any] interface {
	Clone() D
}

// EditHooks binds the edit flow to one entity type.
type EditHooks[E any, D Draft[D], P any] struct {
	// ToDraft copies the editable fields of the canonical entity.
	ToDraft func(E) D
	// Validate returns field errors, or nil when the draft can be saved.
	Validate func(D) (validation.FieldErrors, error)
	// Diff builds the partial update; changed is false when the draft
	// matches the canonical entity.
	Diff func(canonical E, draft D) (patch P, changed bool)
	// Save sends the patch and returns the entity the server stored.
	Save func(ctx context.Context, token string, canonical E, patch P) (E, error)
	// FailMsg is shown when Save fails, e.g. "Failed to update task".
	FailMsg string
}

type EditState[D any] struct {
	Editing     bool
	Saving      bool
	Draft       D
	FieldErrors validation.FieldErrors
	Error       string
}

// Editor runs the edit sub-flow on top of a Loader's canonical data:
// not editing -> editing -> saving -> not editing, or back to editing
// with the draft intact when the save fails.
type Editor[E any, D Draft[D], P any] struct {
	mu     sync.Mutex
	loader *Loader[E]
	tokens client.TokenProvider
	hooks  EditHooks[E, D, P]
	log    *logrus.Entry

	st EditState[D]
}

func NewEditor[E any, D Draft[D], P any](loader *Loader[E], tokens client.TokenProvider, hooks EditHooks[E, D, P], log *logrus.Entry) *Editor[E, D, P] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Editor[E, D, P]{
		loader: loader,
		tokens: tokens,
		hooks:  hooks,
		log:    log,
	}
}

// BeginEdit copies the canonical entity into a fresh draft.
func (e *Editor[E, D, P]) BeginEdit() error {
	canonical, ok := e.loader.Data()
	if !ok {
		return ErrNotReady
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st.Saving {
		return ErrSaveInFlight
	}
	e.st = EditState[D]{
		Editing: true,
		Draft:   e.hooks.ToDraft(canonical),
	}
	return nil
}

// UpdateDraft applies fn to the draft. fn may return an error to reject
// the change, which leaves the draft untouched.
func (e *Editor[E, D, P]) UpdateDraft(fn func(*D) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.st.Editing {
		return ErrNotEditing
	}
	if e.st.Saving {
		return ErrSaveInFlight
	}
	draft := e.st.Draft.Clone()
	if err := fn(&draft); err != nil {
		return err
	}
	e.st.Draft = draft
	return nil
}

func (e *Editor[E, D, P]) CancelEdit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st.Saving {
		return ErrSaveInFlight
	}
	e.st = EditState[D]{}
	return nil
}

// Save validates the draft and, when it differs from the canonical entity,
// sends the partial update. An unchanged draft leaves edit mode without a
// request.
func (e *Editor[E, D, P]) Save(ctx context.Context) error {
	canonical, ok := e.loader.Data()
	if !ok {
		return ErrNotReady
	}

	e.mu.Lock()
	if !e.st.Editing {
		e.mu.Unlock()
		return ErrNotEditing
	}
	if e.st.Saving {
		e.mu.Unlock()
		return ErrSaveInFlight
	}
	draft := e.st.Draft.Clone()

	fieldErrs, err := e.hooks.Validate(draft)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("validate draft: %w", err)
	}
	if len(fieldErrs) > 0 {
		e.st.FieldErrors = fieldErrs
		e.mu.Unlock()
		return &ValidationError{Fields: fieldErrs}
	}

	patch, changed := e.hooks.Diff(canonical, draft)
	if !changed {
		e.st = EditState[D]{}
		e.mu.Unlock()
		return nil
	}

	e.st.FieldErrors = nil
	e.st.Error = ""
	e.st.Saving = true
	e.mu.Unlock()

	token, err := e.tokens.Token(ctx)
	if err == nil && token == "" {
		err = client.ErrMissingToken
	}
	if err != nil {
		e.log.WithError(err).Warn("no session token")
		e.failSave(MsgAuthRequired)
		return fmt.Errorf("get token: %w", err)
	}

	saved, err := e.hooks.Save(ctx, token, canonical, patch)
	if err != nil {
		e.log.WithError(err).Error(e.hooks.FailMsg)
		e.failSave(e.hooks.FailMsg)
		return err
	}

	e.loader.Replace(saved)
	e.mu.Lock()
	e.st = EditState[D]{}
	e.mu.Unlock()
	return nil
}

func (e *Editor[E, D, P]) failSave(msg string) {
	e.mu.Lock()
	e.st.Saving = false
	e.st.Error = msg
	e.mu.Unlock()
}

// Snapshot returns a copy of the edit state.
func (e *Editor[E, D, P]) Snapshot() EditState[D] {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.st
	if st.Editing {
		st.Draft = st.Draft.Clone()
	}
	if st.FieldErrors != nil {
		errs := make(validation.FieldErrors, len(st.FieldErrors))
		for k, v := range st.FieldErrors {
			errs[k] = v
		}
		st.FieldErrors = errs
	}
	return st
}

func (e *Editor[E, D, P]) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Editing
}
