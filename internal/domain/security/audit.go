package security

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventType classifies an auditable event.
type AuditEventType string

const (
	AuditToolInvoked    AuditEventType = "tool.invoked"
	AuditToolFailed     AuditEventType = "tool.failed"
	AuditToolRejected   AuditEventType = "tool.rejected"
	AuditSessionStarted AuditEventType = "session.started"
	AuditSessionStopped AuditEventType = "session.stopped"
)

// AuditEvent records one tool invocation or session transition.
type AuditEvent struct {
	ID        string         `json:"id"`
	Type      AuditEventType `json:"type"`
	Tool      string         `json:"tool"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewAuditEvent creates an audit event for a tool.
func NewAuditEvent(eventType AuditEventType, tool string) *AuditEvent {
	return &AuditEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Tool:      tool,
		Details:   make(map[string]any),
		Timestamp: time.Now(),
	}
}

// WithDetail adds a detail to the audit event.
func (e *AuditEvent) WithDetail(key string, value any) *AuditEvent {
	e.Details[key] = value
	return e
}
