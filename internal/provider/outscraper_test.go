package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tyrell35/Prospex/internal/entity"
)

func TestOutscraperClient_Fetch_NormalizesListings(t *testing.T) {
	var gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.Header.Get("X-API-KEY")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[[
			{"name":"Glow Salon","full_address":"12 Main St, Austin, TX","phone":"+1 512 555 0100","site":"glow.example","rating":4.2,"reviews":37,"google_maps_url":"https://maps.google.com/?cid=1"},
			{"name":"","address":"99 Side St","website":"side.example"},
			{"name":"Broken Rating","rating":"not-a-number"}
		]]}`))
	}))
	defer server.Close()

	client := NewOutscraperClient("key-123", server.Client(), 30, WithOutscraperBaseURL(server.URL))
	listings, err := client.Fetch(context.Background(), "hair salon", "Austin, TX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "hair salon Austin, TX" {
		t.Fatalf("unexpected query param: %q", gotQuery)
	}
	if gotKey != "key-123" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}

	// The malformed third item is dropped, not fatal.
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.BusinessName != "Glow Salon" || first.Source != entity.SourceGoogleMaps {
		t.Fatalf("unexpected first listing: %+v", first)
	}
	if first.Address == nil || *first.Address != "12 Main St, Austin, TX" {
		t.Fatalf("expected full_address precedence, got %v", first.Address)
	}
	if first.Website == nil || *first.Website != "https://glow.example" {
		t.Fatalf("expected sanitized site, got %v", first.Website)
	}
	if first.GoogleRating == nil || *first.GoogleRating != 4.2 {
		t.Fatalf("expected rating 4.2, got %v", first.GoogleRating)
	}
	if first.GoogleReviewCount == nil || *first.GoogleReviewCount != 37 {
		t.Fatalf("expected 37 reviews, got %v", first.GoogleReviewCount)
	}

	second := listings[1]
	if second.BusinessName != "Unknown" {
		t.Fatalf("expected Unknown fallback name, got %q", second.BusinessName)
	}
	if second.Website == nil || *second.Website != "https://side.example" {
		t.Fatalf("expected website fallback field, got %v", second.Website)
	}
}

func TestOutscraperClient_Fetch_MissingKey(t *testing.T) {
	client := NewOutscraperClient("", nil, 30)
	_, err := client.Fetch(context.Background(), "salon", "Austin")
	var configErr ConfigurationError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if configErr.Message != "Outscraper API key not configured. Add it in Settings." {
		t.Fatalf("unexpected message: %q", configErr.Message)
	}
}

func TestOutscraperClient_Fetch_Non2xxIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"quota exceeded"}`))
	}))
	defer server.Close()

	client := NewOutscraperClient("key-123", server.Client(), 30, WithOutscraperBaseURL(server.URL))
	_, err := client.Fetch(context.Background(), "salon", "Austin")
	var providerErr ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if providerErr.StatusCode != http.StatusForbidden || providerErr.Source != entity.SourceGoogleMaps {
		t.Fatalf("unexpected provider error: %+v", providerErr)
	}
	if providerErr.Body != `{"error":"quota exceeded"}` {
		t.Fatalf("expected raw body preserved, got %q", providerErr.Body)
	}
}

func TestOutscraperClient_Fetch_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewOutscraperClient("key-123", server.Client(), 30, WithOutscraperBaseURL(server.URL))
	listings, err := client.Fetch(context.Background(), "salon", "Austin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("expected no listings, got %d", len(listings))
	}
}
