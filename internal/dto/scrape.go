package dto

import "github.com/tyrell35/Prospex/internal/entity"

// SourceAll selects every configured provider for one ingest.
const SourceAll = "all"

// ScrapeRequest is the payload used by the scraping endpoint. Source is a
// single provider name or "all".
type ScrapeRequest struct {
	Niche    string `json:"niche"`
	Location string `json:"location"`
	Source   string `json:"source"`
}

// ScrapeResponse reports the de-duplicated listings persisted by one ingest.
type ScrapeResponse struct {
	Results []entity.Listing `json:"results"`
	Count   int              `json:"count"`
}
