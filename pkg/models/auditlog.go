package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           int                    `json:"id" db:"id"`
	Module       string                 `json:"module" db:"module"`
	RecordType   string                 `json:"record_type" db:"record_type"`
	RecordID     int                    `json:"record_id" db:"record_id"`
	Action       string                 `json:"action" db:"action"` // create, update, delete, run_completed, run_failed
	OldValuesRaw string                 `json:"-" db:"old_values"`  // JSON as string
	NewValuesRaw string                 `json:"-" db:"new_values"`
	OldValues    map[string]interface{} `json:"old_values,omitempty" db:"-"`
	NewValues    map[string]interface{} `json:"new_values,omitempty" db:"-"`
	UserID       *int                   `json:"user_id,omitempty" db:"user_id"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
}

func (a *AuditLog) LoadFromDB() {
	if a.OldValuesRaw != "" {
		_ = json.Unmarshal([]byte(a.OldValuesRaw), &a.OldValues)
	}
	if a.NewValuesRaw != "" {
		_ = json.Unmarshal([]byte(a.NewValuesRaw), &a.NewValues)
	}
}
