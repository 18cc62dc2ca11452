package models

import (
	"encoding/json"
	"time"
)

// AuditAction constants represent console mutations to be logged.
const (
	AuditActionAssign          = "SCHEDULE_ASSIGN"
	AuditActionEdit            = "SCHEDULE_EDIT"
	AuditActionSubstitute      = "SCHEDULE_SUBSTITUTE"
	AuditActionRestore         = "SCHEDULE_RESTORE"
	AuditActionSubmitDraft     = "DRAFT_SUBMIT"
	AuditActionSyncSubjects    = "SYNC_SUBJECTS_SECTIONS"
	AuditActionSyncAssignments = "SYNC_EXISTING_ASSIGNMENTS"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string          `db:"id" json:"id"`
	Actor      *string         `db:"actor" json:"actor,omitempty"`
	Session    string          `db:"session" json:"session"`
	Action     string          `db:"action" json:"action"`
	Resource   string          `db:"resource" json:"resource"`
	ResourceID *string         `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  json.RawMessage `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string          `db:"ip_address" json:"ip_address"`
	UserAgent  string          `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// AuditFilter narrows audit queries.
type AuditFilter struct {
	Action   string
	Session  string
	Page     int
	PageSize int
}
