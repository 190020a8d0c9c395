package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tyrell35/Prospex/internal/entity"
)

const (
	defaultApifyBaseURL = "https://api.apify.com"

	yelpActorID    = "yin/yelp-scraper"
	crawlerActorID = "apify/web-scraper"
)

// freshaPageFunction is executed by the generic Apify crawler against the
// Fresha search results page.
const freshaPageFunction = `async function pageFunction(context) {
  const { $, request } = context;
  const results = [];
  $('[data-qa="search-result-card"]').each((i, el) => {
    results.push({
      name: $(el).find('[data-qa="venue-card-name"]').text().trim(),
      address: $(el).find('[data-qa="venue-card-address"]').text().trim(),
      rating: parseFloat($(el).find('[data-qa="venue-card-rating"]').text()) || null,
      reviewCount: parseInt($(el).find('[data-qa="venue-card-reviews"]').text()) || null,
    });
  });
  return results;
}`

// apifyRunner runs Apify actors synchronously and returns the dataset items.
type apifyRunner struct {
	token   string
	baseURL string
	client  *http.Client
}

func newApifyRunner(token, baseURL string, client *http.Client) apifyRunner {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultApifyBaseURL
	}
	return apifyRunner{token: token, baseURL: baseURL, client: client}
}

// runSync posts the actor input and returns status code plus raw body. The
// caller decides how a non-2xx status is treated, because the Fresha crawler
// deliberately soft-fails while the Yelp actor does not.
func (r apifyRunner) runSync(ctx context.Context, actorID string, input any) (int, []byte, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s", r.baseURL, actorID, url.QueryEscape(r.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build actor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("actor request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read actor response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// ApifyYelpClient fetches Yelp listings through the hosted Yelp scraper actor.
type ApifyYelpClient struct {
	runner apifyRunner
	limit  int
}

// NewApifyYelpClient builds the Yelp adapter with an injected token.
func NewApifyYelpClient(token string, client *http.Client, limit int, baseURL string) *ApifyYelpClient {
	if limit <= 0 {
		limit = 30
	}
	return &ApifyYelpClient{runner: newApifyRunner(token, baseURL, client), limit: limit}
}

// Source identifies the adapter.
func (c *ApifyYelpClient) Source() entity.Source {
	return entity.SourceYelp
}

type yelpItem struct {
	Name        string   `json:"name"`
	BizName     string   `json:"bizName"`
	Address     string   `json:"address"`
	FullAddress string   `json:"fullAddress"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Website     string   `json:"website"`
	BizURL      string   `json:"bizUrl"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
}

// Fetch runs the Yelp actor synchronously. Malformed dataset items are
// dropped; a non-2xx actor response is a ProviderError.
func (c *ApifyYelpClient) Fetch(ctx context.Context, niche, location string) ([]entity.Listing, error) {
	if c.runner.token == "" {
		return nil, ConfigurationError{Message: "Apify API token not configured. Add it in Settings."}
	}

	input := map[string]any{
		"searchTerms": []string{niche},
		"locations":   []string{location},
		"maxItems":    c.limit,
	}
	status, body, err := c.runner.runSync(ctx, yelpActorID, input)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, ProviderError{Source: entity.SourceYelp, StatusCode: status, Body: string(body)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, ProviderError{Source: entity.SourceYelp, StatusCode: status, Body: string(body)}
	}

	listings := make([]entity.Listing, 0, len(items))
	for _, raw := range items {
		var item yelpItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		listings = append(listings, entity.Listing{
			BusinessName:      businessNameOrUnknown(item.Name, item.BizName),
			Address:           firstNonEmpty(item.Address, item.FullAddress),
			Phone:             firstNonEmpty(item.Phone),
			Email:             firstNonEmpty(item.Email),
			Website:           sanitizeWebsite(firstNonEmptyString(item.Website, item.BizURL)),
			GoogleRating:      item.Rating,
			GoogleReviewCount: item.ReviewCount,
			GoogleMapsURL:     nil,
			Source:            entity.SourceYelp,
		})
	}
	return listings, nil
}

// ApifyFreshaClient scrapes Fresha search results with the generic Apify
// web-scraper actor.
type ApifyFreshaClient struct {
	runner apifyRunner
}

// NewApifyFreshaClient builds the Fresha adapter with an injected token.
func NewApifyFreshaClient(token string, client *http.Client, baseURL string) *ApifyFreshaClient {
	return &ApifyFreshaClient{runner: newApifyRunner(token, baseURL, client)}
}

// Source identifies the adapter.
func (c *ApifyFreshaClient) Source() entity.Source {
	return entity.SourceFresha
}

type freshaItem struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
}

// Fetch runs the generic crawler against the Fresha search page. A non-2xx
// actor response yields zero results instead of an error: the crawler breaks
// whenever Fresha changes markup, and that must not poison an "all sources"
// ingest. This soft failure is unique to this adapter.
func (c *ApifyFreshaClient) Fetch(ctx context.Context, niche, location string) ([]entity.Listing, error) {
	if c.runner.token == "" {
		return nil, ConfigurationError{Message: "Apify API token not configured. Add it in Settings."}
	}

	searchURL := fmt.Sprintf("https://www.fresha.com/search?query=%s&location=%s",
		url.QueryEscape(niche), url.QueryEscape(location))
	input := map[string]any{
		"startUrls":        []map[string]string{{"url": searchURL}},
		"pageFunction":     freshaPageFunction,
		"maxPagesPerCrawl": 1,
	}

	status, body, err := c.runner.runSync(ctx, crawlerActorID, input)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return []entity.Listing{}, nil
	}

	items, err := flattenDatasetItems(body)
	if err != nil {
		return []entity.Listing{}, nil
	}

	listings := make([]entity.Listing, 0, len(items))
	for _, raw := range items {
		var item freshaItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		// The page function emits one empty record per card it cannot
		// parse; those carry no identity and are dropped.
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		listings = append(listings, entity.Listing{
			BusinessName:      businessNameOrUnknown(item.Name),
			Address:           firstNonEmpty(item.Address),
			Phone:             nil,
			Email:             nil,
			Website:           nil,
			GoogleRating:      item.Rating,
			GoogleReviewCount: item.ReviewCount,
			GoogleMapsURL:     nil,
			Source:            entity.SourceFresha,
		})
	}
	return listings, nil
}

// flattenDatasetItems accepts both shapes the crawler produces: a flat item
// list, or one nested list per crawled page.
func flattenDatasetItems(body []byte) ([]json.RawMessage, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, err
	}

	items := make([]json.RawMessage, 0, len(outer))
	for _, element := range outer {
		var nested []json.RawMessage
		if err := json.Unmarshal(element, &nested); err == nil {
			items = append(items, nested...)
			continue
		}
		items = append(items, element)
	}
	return items, nil
}
