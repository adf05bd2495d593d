package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPhaseRegression = errors.New("phase cannot move backwards")
	ErrPhaseOrder      = errors.New("phase depends on an unfinished step")
	ErrAlreadyAssigned = errors.New("session value already assigned")

	ErrMissingInput    = errors.New("either stdin or [file] have to be given")
	ErrPackagingFailed = errors.New("packaging failed")
	ErrNoFreePort      = errors.New("no free port found")
	ErrBindFailed      = errors.New("listener bind failed")
	ErrTunnelExhausted = errors.New("tunnel exhausted retries")
)

type FatalKind string

const (
	FatalMissingInput    FatalKind = "missing-input"
	FatalPackagingFailed FatalKind = "packaging-failed"
	FatalNoFreePort      FatalKind = "no-free-port"
	FatalBindFailed      FatalKind = "bind-failed"
	FatalTunnelExhausted FatalKind = "tunnel-exhausted"
)

func (k FatalKind) sentinel() error {
	switch k {
	case FatalMissingInput:
		return ErrMissingInput
	case FatalPackagingFailed:
		return ErrPackagingFailed
	case FatalNoFreePort:
		return ErrNoFreePort
	case FatalBindFailed:
		return ErrBindFailed
	case FatalTunnelExhausted:
		return ErrTunnelExhausted
	default:
		return nil
	}
}

// SessionError is the single error value a session aborts with.
type SessionError struct {
	Kind FatalKind
	Step Step
	Err  error
}

func NewSessionError(kind FatalKind, step Step, err error) *SessionError {
	return &SessionError{Kind: kind, Step: step, Err: err}
}

func (e *SessionError) Error() string {
	sentinel := e.Kind.sentinel()
	switch {
	case e.Err == nil && sentinel == nil:
		return string(e.Kind)
	case e.Err == nil:
		return sentinel.Error()
	case sentinel == nil || errors.Is(e.Err, sentinel):
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %s", sentinel, e.Err)
	}
}

func (e *SessionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel := e.Kind.sentinel(); sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
