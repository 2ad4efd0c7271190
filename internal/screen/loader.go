package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow-client/internal/client"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a copy of a Loader's state. Data is only meaningful when
// HasData is set; it survives failed refreshes.
type State[T any] struct {
	Phase        Phase
	Data         T
	HasData      bool
	Error        string
	Refreshing   bool
	RefreshError string
}

// FetchFunc performs the remote read for a screen.
type FetchFunc[T any] func(ctx context.Context, token string) (T, error)

// Loader runs the fetch lifecycle of one screen instance: first load,
// retry, pull-to-refresh. Only the most recently started fetch may write
// state; older results are dropped.
type Loader[T any] struct {
	mu      sync.Mutex
	tokens  client.TokenProvider
	fetch   FetchFunc[T]
	failMsg string
	log     *logrus.Entry

	state  State[T]
	gen    uint64
	closed bool
}

// NewLoader creates a loader. failMsg is the only error text users see
// when the fetch fails, e.g. "Failed to load tasks".
func NewLoader[T any](tokens client.TokenProvider, fetch FetchFunc[T], failMsg string, log *logrus.Entry) *Loader[T] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Loader[T]{
		tokens:  tokens,
		fetch:   fetch,
		failMsg: failMsg,
		log:     log,
	}
}

// Load runs the initial fetch and shows the full-screen loading state.
func (l *Loader[T]) Load(ctx context.Context) error {
	return l.run(ctx, false)
}

// Retry re-runs the initial fetch after an error.
func (l *Loader[T]) Retry(ctx context.Context) error {
	return l.run(ctx, false)
}

// Refresh reloads without hiding data already on screen. A failed refresh
// keeps the data and sets RefreshError. Without data it behaves like Load.
func (l *Loader[T]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	hasData := l.state.HasData
	l.mu.Unlock()
	return l.run(ctx, hasData)
}

func (l *Loader[T]) run(ctx context.Context, refresh bool) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.gen++
	gen := l.gen
	if refresh {
		l.state.Refreshing = true
		l.state.RefreshError = ""
	} else {
		// A full load supersedes any refresh in flight.
		l.state.Phase = PhaseLoading
		l.state.Error = ""
		l.state.Refreshing = false
		l.state.RefreshError = ""
	}
	l.mu.Unlock()

	token, err := l.tokens.Token(ctx)
	if err == nil && token == "" {
		err = client.ErrMissingToken
	}
	if err != nil {
		l.log.WithError(err).Warn("no session token")
		return l.finish(gen, refresh, *new(T), fmt.Errorf("get token: %w", err), MsgAuthRequired)
	}

	data, err := l.fetch(ctx, token)
	if err != nil {
		l.log.WithError(err).Error(l.failMsg)
		return l.finish(gen, refresh, data, err, l.failMsg)
	}
	return l.finish(gen, refresh, data, nil, "")
}

func (l *Loader[T]) finish(gen uint64, refresh bool, data T, err error, msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	if gen != l.gen {
		l.log.WithField("generation", gen).Debug("dropping stale result")
		return ErrStaleResult
	}

	if refresh {
		l.state.Refreshing = false
	}
	if err != nil {
		if refresh && l.state.HasData {
			l.state.RefreshError = msg
			return err
		}
		l.state.Phase = PhaseError
		l.state.Error = msg
		return err
	}

	l.state.Phase = PhaseReady
	l.state.Data = data
	l.state.HasData = true
	l.state.Error = ""
	l.state.RefreshError = ""
	return nil
}

// Snapshot returns a copy of the current state.
func (l *Loader[T]) Snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Data returns the canonical data, if any.
func (l *Loader[T]) Data() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Data, l.state.HasData
}

// Replace sets canonical data, e.g. with the entity a save returned. Any
// fetch in flight is superseded.
func (l *Loader[T]) Replace(data T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.gen++
	l.state.Phase = PhaseReady
	l.state.Data = data
	l.state.HasData = true
	l.state.Error = ""
	l.state.Refreshing = false
	l.state.RefreshError = ""
}

// Mutate edits canonical data in place. It returns ErrNotReady when there
// is no data to edit.
func (l *Loader[T]) Mutate(fn func(*T)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if !l.state.HasData {
		return ErrNotReady
	}
	fn(&l.state.Data)
	return nil
}

// Close marks the screen as gone. Results that arrive afterwards are
// discarded.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

// IsAuthError reports whether err came from a missing session.
func IsAuthError(err error) bool {
	return errors.Is(err, client.ErrMissingToken)
}
