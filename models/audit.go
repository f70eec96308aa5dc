package models

import (
	"encoding/json"
	"time"
)

// AuditRecord is an immutable log entry. The client appends nothing and
// mutates nothing; records are read-only.
type AuditRecord struct {
	ID          string          `json:"id"`
	User        *User           `json:"user,omitempty"` // nil means the system acted
	Entity      string          `json:"entity"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Datetime    time.Time       `json:"datetime"`
	OldValue    json.RawMessage `json:"oldValue,omitempty"`
	NewValue    json.RawMessage `json:"newValue,omitempty"`
}
