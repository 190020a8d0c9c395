package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/tyrell35/Prospex/internal/entity"
)

// Fetcher retrieves business listings for a niche/location pair and returns
// them in the canonical Listing shape, tagged with their source.
type Fetcher interface {
	Fetch(ctx context.Context, niche, location string) ([]entity.Listing, error)
	Source() entity.Source
}

// Set maps each supported source to its adapter.
type Set map[entity.Source]Fetcher

// ConfigurationError indicates a missing provider credential. The message is
// operator-actionable and surfaced verbatim.
type ConfigurationError struct {
	Message string
}

func (e ConfigurationError) Error() string {
	return e.Message
}

// ProviderError indicates a non-2xx or malformed upstream response. Body
// carries the raw response payload for diagnosis.
type ProviderError struct {
	Source     entity.Source
	StatusCode int
	Body       string
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("%s provider error (status %d): %s", e.Source, e.StatusCode, e.Body)
}

const unknownBusinessName = "Unknown"

// businessNameOrUnknown guarantees a non-empty identity component for every
// normalized record.
func businessNameOrUnknown(candidates ...string) string {
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			return trimmed
		}
	}
	return unknownBusinessName
}

// firstNonEmpty applies the per-field precedence rules: the first non-blank
// candidate wins, otherwise the field stays nil.
func firstNonEmpty(candidates ...string) *string {
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			return &trimmed
		}
	}
	return nil
}

// sanitizeWebsite normalizes a scraped website string. The scheme defaults to
// https and the host must survive an IDNA lookup conversion; anything else
// becomes nil so downstream consumers see one absent-value sentinel.
func sanitizeWebsite(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	if _, err := idna.Lookup.ToASCII(u.Hostname()); err != nil {
		return nil
	}
	cleaned := u.String()
	return &cleaned
}

// firstNonEmptyString is firstNonEmpty for callers that feed another
// normalization step rather than a field.
func firstNonEmptyString(candidates ...string) string {
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
