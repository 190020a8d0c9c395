package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tyrell35/Prospex/internal/entity"
)

const defaultOutscraperBaseURL = "https://api.app.outscraper.com"

// OutscraperClient fetches Google Maps listings through the Outscraper
// search API.
type OutscraperClient struct {
	apiKey  string
	baseURL string
	limit   int
	client  *http.Client
}

// OutscraperOption configures the client.
type OutscraperOption func(*OutscraperClient)

// WithOutscraperBaseURL overrides the API base URL (used by tests).
func WithOutscraperBaseURL(baseURL string) OutscraperOption {
	return func(c *OutscraperClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// NewOutscraperClient builds the Google Maps adapter. The API key is injected
// here; the adapter never consults the environment.
func NewOutscraperClient(apiKey string, client *http.Client, limit int, opts ...OutscraperOption) *OutscraperClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if limit <= 0 {
		limit = 30
	}
	c := &OutscraperClient{
		apiKey:  apiKey,
		baseURL: defaultOutscraperBaseURL,
		limit:   limit,
		client:  client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source identifies the adapter.
func (c *OutscraperClient) Source() entity.Source {
	return entity.SourceGoogleMaps
}

type outscraperItem struct {
	Name          string   `json:"name"`
	FullAddress   string   `json:"full_address"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Site          string   `json:"site"`
	Website       string   `json:"website"`
	Rating        *float64 `json:"rating"`
	Reviews       *int     `json:"reviews"`
	GoogleMapsURL string   `json:"google_maps_url"`
}

// Fetch queries the Outscraper maps search endpoint synchronously and
// normalizes the first result page. Malformed items are dropped, not fatal.
func (c *OutscraperClient) Fetch(ctx context.Context, niche, location string) ([]entity.Listing, error) {
	if c.apiKey == "" {
		return nil, ConfigurationError{Message: "Outscraper API key not configured. Add it in Settings."}
	}

	query := url.Values{}
	query.Set("query", niche+" "+location)
	query.Set("limit", fmt.Sprintf("%d", c.limit))
	query.Set("async", "false")

	endpoint := c.baseURL + "/maps/search-v3?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build outscraper request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("outscraper request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read outscraper response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ProviderError{Source: entity.SourceGoogleMaps, StatusCode: resp.StatusCode, Body: string(body)}
	}

	// The search-v3 payload nests one result page per query.
	var payload struct {
		Data [][]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ProviderError{Source: entity.SourceGoogleMaps, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var page []json.RawMessage
	if len(payload.Data) > 0 {
		page = payload.Data[0]
	}

	listings := make([]entity.Listing, 0, len(page))
	for _, raw := range page {
		var item outscraperItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		listings = append(listings, entity.Listing{
			BusinessName:      businessNameOrUnknown(item.Name),
			Address:           firstNonEmpty(item.FullAddress, item.Address),
			Phone:             firstNonEmpty(item.Phone),
			Email:             firstNonEmpty(item.Email),
			Website:           sanitizeWebsite(firstNonEmptyString(item.Site, item.Website)),
			GoogleRating:      item.Rating,
			GoogleReviewCount: item.Reviews,
			GoogleMapsURL:     firstNonEmpty(item.GoogleMapsURL),
			Source:            entity.SourceGoogleMaps,
		})
	}
	return listings, nil
}
