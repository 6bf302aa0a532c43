package ports

import (
	"context"
	"time"
)

// ActivityKind labels a directory lifecycle event.
type ActivityKind string

const (
	ActivityRegistered    ActivityKind = "registered"
	ActivityLogin         ActivityKind = "login"
	ActivityStatusChanged ActivityKind = "status_changed"
	ActivityRoleChanged   ActivityKind = "role_changed"
	ActivityDeleted       ActivityKind = "deleted"
)

// ActivityEvent is the in-process record of a directory mutation, consumed
// by the observability sink. It carries no secrets.
type ActivityEvent struct {
	UserID   string
	Username string
	Kind     ActivityKind
	Detail   string
	At       time.Time
}

// ActivityPublisher hands events to the dispatcher. Publishing is
// fire-and-forget: a lost event never fails the operation that emitted it.
type ActivityPublisher interface {
	Publish(event ActivityEvent)
}

// ActivityProcessor consumes dispatched events on a worker.
type ActivityProcessor interface {
	Process(ctx context.Context, event ActivityEvent) error
}
