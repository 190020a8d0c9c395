package entity

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies the provider a listing was scraped from.
type Source string

const (
	SourceGoogleMaps Source = "google_maps"
	SourceYelp       Source = "yelp"
	SourceFresha     Source = "fresha"
)

// Valid reports whether the source is one of the supported providers.
func (s Source) Valid() bool {
	switch s {
	case SourceGoogleMaps, SourceYelp, SourceFresha:
		return true
	default:
		return false
	}
}

// Listing is a normalized business record produced by a provider adapter.
// BusinessName is never empty: adapters substitute "Unknown" when the
// provider supplies no name.
type Listing struct {
	BusinessName      string   `json:"business_name"`
	Address           *string  `json:"address"`
	Phone             *string  `json:"phone"`
	Email             *string  `json:"email"`
	Website           *string  `json:"website"`
	GoogleRating      *float64 `json:"google_rating"`
	GoogleReviewCount *int     `json:"google_review_count"`
	GoogleMapsURL     *string  `json:"google_maps_url"`
	Source            Source   `json:"source"`
}

// AuditStatus tracks the lifecycle of a website audit for a lead.
type AuditStatus string

const (
	AuditPending  AuditStatus = "pending"
	AuditRunning  AuditStatus = "running"
	AuditComplete AuditStatus = "complete"
	AuditError    AuditStatus = "error"
)

// AuditData carries the website-audit signals attached to a lead. Every
// signal is tri-state: true, false, or unknown (nil). Unknown signals
// contribute nothing to the lead score.
type AuditData struct {
	SSLCheck           *bool    `json:"ssl_check"`
	MobileScore        *float64 `json:"mobile_score"`
	SpeedScore         *float64 `json:"speed_score"`
	HasSocialMedia     *bool    `json:"has_social_media"`
	HasClickToCall     *bool    `json:"has_click_to_call"`
	HasVideo           *bool    `json:"has_video"`
	HasChatbot         *bool    `json:"has_chatbot"`
	HasBooking         *bool    `json:"has_booking"`
	HasMetaDescription *bool    `json:"has_meta_description"`
	HasH1              *bool    `json:"has_h1"`
	HasAnalytics       *bool    `json:"has_analytics"`
	HasSchema          *bool    `json:"has_schema"`
	OverallScore       *float64 `json:"overall_score"`
}

// Lead is a persisted prospect. The identity key for merge purposes is
// (business_name, source); re-ingesting the same key refreshes contact and
// rating fields only.
type Lead struct {
	ID                uuid.UUID    `json:"id"`
	BusinessName      string       `json:"business_name"`
	Address           *string      `json:"address,omitempty"`
	Phone             *string      `json:"phone,omitempty"`
	Email             *string      `json:"email,omitempty"`
	Website           *string      `json:"website,omitempty"`
	GoogleRating      *float64     `json:"google_rating,omitempty"`
	GoogleReviewCount *int         `json:"google_review_count,omitempty"`
	GoogleMapsURL     *string      `json:"google_maps_url,omitempty"`
	Source            Source       `json:"source"`
	LeadScore         *int         `json:"lead_score,omitempty"`
	LeadGrade         *string      `json:"lead_grade,omitempty"`
	LeadPriority      *string      `json:"lead_priority,omitempty"`
	AuditStatus       *AuditStatus `json:"audit_status,omitempty"`
	AuditScore        *float64     `json:"audit_score,omitempty"`
	AuditData         *AuditData   `json:"audit_data,omitempty"`
	GHLContactID      *string      `json:"ghl_contact_id,omitempty"`
	GHLPushedAt       *time.Time   `json:"ghl_pushed_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}
