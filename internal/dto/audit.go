package dto

import "github.com/tyrell35/Prospex/internal/entity"

// AuditResultRequest is the callback payload posted by the audit worker once
// a website audit finishes.
type AuditResultRequest struct {
	LeadID  string           `json:"lead_id"`
	Status  string           `json:"status"`
	Signals entity.AuditData `json:"signals"`
}
