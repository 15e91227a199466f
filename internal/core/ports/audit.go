package ports

import (
	"context"
	"time"
)

// Audit actions recorded by the use-cases.
const (
	AuditSignup       = "signup"
	AuditLogin        = "login"
	AuditLoginFailed  = "login_failed"
	AuditRoleAssigned = "role_assigned"
	AuditTaskCreated  = "task_created"
	AuditTaskUpdated  = "task_updated"
	AuditTaskDeleted  = "task_deleted"
)

// AuditEvent is one entry in the security/activity trail.
type AuditEvent struct {
	Action     string
	ActorEmail string
	TargetID   string
	At         time.Time
}

// AuditSink accepts events for asynchronous persistence. Record must not
// block the request path.
type AuditSink interface {
	Record(event AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *AuditEvent) error
}

// NopAuditSink discards events. Used in tests and when auditing is disabled.
type NopAuditSink struct{}

func (NopAuditSink) Record(AuditEvent) {}
