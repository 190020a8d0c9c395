package dto

// LeadFilter contains query parameters for lead listing and export endpoints.
type LeadFilter struct {
	Search      string
	Source      string
	Priority    string
	AuditStatus string
	MinScore    *int
	MaxScore    *int
	Sort        string
	Page        int
	PerPage     int
}

// DeleteLeadsRequest carries the explicit operator deletion payload.
type DeleteLeadsRequest struct {
	IDs []string `json:"ids"`
}

// DashboardStats summarises the lead pipeline for the dashboard header.
type DashboardStats struct {
	TotalLeads      int     `json:"total_leads"`
	LeadsThisWeek   int     `json:"leads_this_week"`
	AvgLeadScore    float64 `json:"avg_lead_score"`
	PushedToGHL     int     `json:"pushed_to_ghl"`
	AuditsCompleted int     `json:"audits_completed"`
}
