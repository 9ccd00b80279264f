package task

import (
	"errors"
	"fmt"
)

var (
	// ErrThreadNotOwned marks an attempt to activate a thread the task does
	// not own.
	ErrThreadNotOwned = errors.New("thread not owned by task")

	// ErrTaskKilled marks a lifecycle operation on a task that has already
	// been killed.
	ErrTaskKilled = errors.New("task already killed")

	// ErrBadTransition marks a disallowed status transition.
	ErrBadTransition = errors.New("invalid status transition")
)

// LifecycleError wraps a lifecycle contract violation with the ids involved.
type LifecycleError struct {
	Kind error
	Msg  string
}

func (e *LifecycleError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *LifecycleError) Unwrap() error { return e.Kind }

func lifecyclef(kind error, format string, args ...any) error {
	return &LifecycleError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
