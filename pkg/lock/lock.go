// Package lock serializes conversation transitions per project.
package lock

import (
	"context"
	"errors"
)

// ErrBusy is returned when another transition already holds the project.
var ErrBusy = errors.New("project is busy")

// ProjectLock grants exclusive access to a project for the duration of one transition.
// The returned release func is safe to call more than once.
type ProjectLock interface {
	Acquire(ctx context.Context, projectId string) (release func(), err error)
}

func key(projectId string) string {
	return "conversation:lock:" + projectId
}
