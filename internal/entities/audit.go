package entities

import (
	"encoding/json"
	"time"
)

type AuditEventType string

const (
	AuditEventCreate     AuditEventType = "create"
	AuditEventUpdate     AuditEventType = "update"
	AuditEventDelete     AuditEventType = "delete"
	AuditEventModeration AuditEventType = "moderation"
	AuditEventSweep      AuditEventType = "sweep"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// Audit text columns are capped at this many bytes.
const auditTextLimit = 500

// AuditEvent is one entry of the catalog's append-only change log.
// ActorID is empty for maintenance runs.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ActorID     string         `gorm:"index;size:36" json:"actor_id,omitempty"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`
	Description string         `gorm:"size:500" json:"description"`
	EntityType  string         `gorm:"size:50;index:idx_audit_entity" json:"entity_type"`
	EntityID    *string        `gorm:"size:36;index:idx_audit_entity" json:"entity_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

// Describe sets the human readable summary, clipped to the column size.
func (e *AuditEvent) Describe(description string) *AuditEvent {
	e.Description = clip(description, auditTextLimit)
	return e
}

// Fail marks the event failed with err. A nil err leaves it untouched.
func (e *AuditEvent) Fail(err error) *AuditEvent {
	if err != nil {
		e.Status = AuditStatusFailed
		e.ErrorMsg = clip(err.Error(), auditTextLimit)
	}
	return e
}

// Attach stores md as the event's JSON metadata.
func (e *AuditEvent) Attach(md map[string]any) *AuditEvent {
	if raw, err := json.Marshal(md); err == nil {
		e.Metadata = string(raw)
	}
	return e
}

// AuditFilter narrows an audit listing. Zero fields match everything.
type AuditFilter struct {
	ActorID    string
	EventType  AuditEventType
	EntityType string
	EntityID   string
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
