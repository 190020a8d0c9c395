package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActionType classifies activity-log entries for operator triage.
type ActionType string

const (
	ActionScrape  ActionType = "scrape"
	ActionAudit   ActionType = "audit"
	ActionGHLPush ActionType = "ghl_push"
	ActionExport  ActionType = "export"
)

// ActivityEntry records an operator-visible event. Recording is
// fire-and-forget: a failed write is logged, never surfaced.
type ActivityEntry struct {
	ID          uuid.UUID  `json:"id"`
	ActionType  ActionType `json:"action_type"`
	Description string     `json:"description"`
	LeadID      *uuid.UUID `json:"lead_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
