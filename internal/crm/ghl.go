package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/tyrell35/Prospex/internal/entity"
)

const defaultPhoneRegion = "US"

// Pusher sends a lead to the CRM and returns the remote contact id.
type Pusher interface {
	PushContact(ctx context.Context, lead *entity.Lead) (string, error)
}

// GHLClient pushes leads to GoHighLevel as contacts.
type GHLClient struct {
	apiKey      string
	locationID  string
	baseURL     string
	phoneRegion string
	client      *http.Client
}

// NewGHLClient builds a GoHighLevel client. Credentials are injected; the
// client never consults the environment.
func NewGHLClient(apiKey, locationID, baseURL string, client *http.Client) *GHLClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GHLClient{
		apiKey:      apiKey,
		locationID:  locationID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		phoneRegion: defaultPhoneRegion,
		client:      client,
	}
}

// PushContact upserts the lead as a GHL contact and returns the contact id.
// GHL de-duplicates on its side, so pushing the same lead twice is safe.
func (c *GHLClient) PushContact(ctx context.Context, lead *entity.Lead) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("GHL API key not configured")
	}
	if lead == nil {
		return "", fmt.Errorf("lead payload is nil")
	}

	payload := map[string]any{
		"name": lead.BusinessName,
		"tags": []string{"prospex", string(lead.Source)},
	}
	if c.locationID != "" {
		payload["locationId"] = c.locationID
	}
	if lead.Email != nil {
		payload["email"] = *lead.Email
	}
	if lead.Phone != nil {
		payload["phone"] = formatPhone(*lead.Phone, c.phoneRegion)
	}
	if lead.Website != nil {
		payload["website"] = *lead.Website
	}
	if lead.Address != nil {
		payload["address1"] = *lead.Address
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal contact payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contacts/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build GHL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GHL request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read GHL response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("GHL error (status %d): %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Contact struct {
			ID string `json:"id"`
		} `json:"contact"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode GHL response: %w", err)
	}
	if parsed.Contact.ID == "" {
		return "", fmt.Errorf("GHL response missing contact id")
	}
	return parsed.Contact.ID, nil
}

// formatPhone converts a scraped phone string to E.164. Numbers that cannot
// be parsed are sent as-is; GHL tolerates free-form phones.
func formatPhone(raw, region string) string {
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

var _ Pusher = (*GHLClient)(nil)
